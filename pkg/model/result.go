package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
)

// RawRiderResult is the imported result of one rider within a race category.
// The import creates a new snapshot on every refresh; the engine never
// modifies it in place.
type RawRiderResult struct {
	ZwiftID    string                  `json:"zwiftId" yaml:"zwiftId"`
	Name       string                  `json:"name" yaml:"name"`
	FinishTime int64                   `json:"finishTime" yaml:"finishTime"` // ms, 0: not finished
	FinishRank int                     `json:"finishRank" yaml:"finishRank"`
	Segments   map[string]SegmentValue `json:"sprintData,omitempty" yaml:"sprintData,omitempty"`
	Stored     *StoredScore            `json:"stored,omitempty" yaml:"stored,omitempty"`
	EditedAt   time.Time               `json:"editedAt,omitzero" yaml:"editedAt,omitempty"`
}

// StoredScore is the total computed by the last batch run together with the
// adjudication status that was in effect at that time.
type StoredScore struct {
	TotalPoints int       `json:"totalPoints" yaml:"totalPoints"`
	Status      Status    `json:"status" yaml:"status"`
	ComputedAt  time.Time `json:"computedAt" yaml:"computedAt"`
}

// SegmentValue holds the raw data of one rider at one segment.
// Older documents carry just a detail value (points for sprints, world time
// for splits), current documents carry world and elapsed time.
type SegmentValue struct {
	Detail      *int64 `json:"detail,omitempty" yaml:"detail,omitempty"`
	WorldTime   int64  `json:"worldTime,omitempty" yaml:"worldTime,omitempty"`
	ElapsedTime int64  `json:"elapsedTime,omitempty" yaml:"elapsedTime,omitempty"`
}

// RaceResults contains the results of all categories of a race.
type RaceResults struct {
	RaceID     string                      `json:"raceId" yaml:"raceId"`
	Categories map[string][]RawRiderResult `json:"categories" yaml:"categories"`
}

// HasActivity is true if the rider finished or has any segment data.
func (r RawRiderResult) HasActivity() bool {
	return r.FinishTime > 0 || len(r.Segments) > 0
}

func (r RawRiderResult) Finished() bool {
	return r.FinishTime > 0
}

// Arrival returns the time the rider reached the segment.
// Legacy detail values are interpreted as world time.
func (v SegmentValue) Arrival() int64 {
	if v.WorldTime > 0 {
		return v.WorldTime
	}
	if v.Detail != nil && *v.Detail > 0 {
		return *v.Detail
	}
	return 0
}

// Points returns the precomputed points, if any
func (v SegmentValue) Points() (int, bool) {
	if v.Detail == nil {
		return 0, false
	}
	return int(*v.Detail), true
}

func (v SegmentValue) IsEmpty() bool {
	return v.Detail == nil && v.WorldTime == 0 && v.ElapsedTime == 0
}

// Clone returns a deep copy of the result
func (r RawRiderResult) Clone() RawRiderResult {
	ret := r
	if r.Segments != nil {
		ret.Segments = make(map[string]SegmentValue, len(r.Segments))
		for k, v := range r.Segments {
			if v.Detail != nil {
				d := *v.Detail
				v.Detail = &d
			}
			ret.Segments[k] = v
		}
	}
	if r.Stored != nil {
		s := *r.Stored
		ret.Stored = &s
	}
	return ret
}

//nolint:tagliatelle // legacy names
type segmentValueDoc struct {
	Detail      *float64 `json:"detail" yaml:"detail"`
	Points      *float64 `json:"points" yaml:"points"`
	WorldTime   *float64 `json:"worldTime" yaml:"worldTime"`
	ElapsedTime *float64 `json:"elapsedTime" yaml:"elapsedTime"`
	Time        *float64 `json:"time" yaml:"time"`
}

func (d segmentValueDoc) toValue() SegmentValue {
	ret := SegmentValue{}
	switch {
	case d.Detail != nil:
		ret.Detail = toInt64Ptr(*d.Detail)
	case d.Points != nil:
		ret.Detail = toInt64Ptr(*d.Points)
	}
	if d.WorldTime != nil {
		ret.WorldTime = toInt64(*d.WorldTime)
	}
	switch {
	case d.ElapsedTime != nil:
		ret.ElapsedTime = toInt64(*d.ElapsedTime)
	case d.Time != nil:
		ret.ElapsedTime = toInt64(*d.Time)
	}
	return ret
}

func (v *SegmentValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = SegmentValue{}
		return nil
	case data[0] == '{':
		var doc segmentValueDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*v = doc.toValue()
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return v.fromString(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid segment value %s: %w", data, err)
		}
		*v = SegmentValue{Detail: toInt64Ptr(f)}
		return nil
	}
}

func (v *SegmentValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var doc segmentValueDoc
		if err := node.Decode(&doc); err != nil {
			return err
		}
		*v = doc.toValue()
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = SegmentValue{}
			return nil
		}
		if node.Tag == "!!int" || node.Tag == "!!float" {
			var f float64
			if err := node.Decode(&f); err != nil {
				return err
			}
			*v = SegmentValue{Detail: toInt64Ptr(f)}
			return nil
		}
		return v.fromString(node.Value)
	default:
		return fmt.Errorf("line %d: unsupported segment value", node.Line)
	}
}

// legacy string values are either numbers or time strings
func (v *SegmentValue) fromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*v = SegmentValue{}
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = SegmentValue{Detail: toInt64Ptr(f)}
		return nil
	}
	if ms, ok := timecodec.Parse(s); ok {
		*v = SegmentValue{WorldTime: ms}
		return nil
	}
	return fmt.Errorf("invalid segment value %q", s)
}

func toInt64(f float64) int64 {
	return int64(math.Round(f))
}

func toInt64Ptr(f float64) *int64 {
	ret := toInt64(f)
	return &ret
}
