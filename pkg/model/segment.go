package model

import (
	"fmt"
	"slices"
	"strconv"
)

type SegmentType string

const (
	SegmentTypeSprint SegmentType = "sprint"
	SegmentTypeSplit  SegmentType = "split"
)

// Segment is a point of interest on a route at a specific lap.
// Identity is (ID, Count, Lap).
type Segment struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Count     int         `json:"count" yaml:"count"` // occurrence of the segment within the race
	Lap       int         `json:"lap" yaml:"lap"`
	Direction string      `json:"direction,omitempty" yaml:"direction,omitempty"`
	Type      SegmentType `json:"type,omitempty" yaml:"type,omitempty"`
	Key       string      `json:"key,omitempty" yaml:"key,omitempty"` // stored key, if any
}

// PrimaryKey returns the stored key or the key composed of the identity fields.
func (s Segment) PrimaryKey() string {
	if s.Key != "" {
		return s.Key
	}
	return fmt.Sprintf("%s_%d_%d", s.ID, s.Count, s.Lap)
}

// CandidateKeys returns the keys under which raw data for this segment may be
// stored, highest priority first. Older result documents used "<id>_<count>"
// or the bare id.
func (s Segment) CandidateKeys() []string {
	ret := make([]string, 0, 3)
	for _, k := range []string{s.PrimaryKey(), s.ID + "_" + strconv.Itoa(s.Count), s.ID} {
		if k == "" || slices.Contains(ret, k) {
			continue
		}
		ret = append(ret, k)
	}
	return ret
}

// EffectiveType resolves the segment type, falling back to the type of the
// surrounding category config and finally to sprint.
func (s Segment) EffectiveType(fallback SegmentType) SegmentType {
	if s.Type != "" {
		return s.Type
	}
	if fallback != "" {
		return fallback
	}
	return SegmentTypeSprint
}

func (s Segment) Label() string {
	if s.Name != "" {
		return fmt.Sprintf("%s #%d", s.Name, s.Count)
	}
	return s.PrimaryKey()
}
