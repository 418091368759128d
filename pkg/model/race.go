package model

import (
	"slices"
	"time"
)

type (
	RaceType    string
	ScoringMode string
)

const (
	RaceTypeScratch   RaceType = "scratch"
	RaceTypePoints    RaceType = "points"
	RaceTypeTimeTrial RaceType = "time-trial"

	ScoringModeSingle ScoringMode = "single"
	ScoringModeMulti  ScoringMode = "multi"
)

type Race struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Date        time.Time        `json:"date" yaml:"date"`
	RouteID     string           `json:"routeId" yaml:"routeId"`
	Laps        int              `json:"laps" yaml:"laps"`
	Type        RaceType         `json:"type" yaml:"type"`
	Mode        ScoringMode      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Segments    []Segment        `json:"sprints,omitempty" yaml:"sprints,omitempty"`
	SegmentType SegmentType      `json:"segmentType,omitempty" yaml:"segmentType,omitempty"`
	Categories  []CategoryConfig `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// CategoryConfig holds the scoring configuration of one category.
// In multi mode SourceID references the external result source which is
// mapped onto this (custom) category.
type CategoryConfig struct {
	Category    string      `json:"category" yaml:"category"`
	Laps        int         `json:"laps,omitempty" yaml:"laps,omitempty"`
	Segments    []Segment   `json:"sprints,omitempty" yaml:"sprints,omitempty"`
	SegmentType SegmentType `json:"segmentType,omitempty" yaml:"segmentType,omitempty"`
	SourceID    string      `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
}

func (r Race) IsTimeTrial() bool {
	return r.Type == RaceTypeTimeTrial
}

// UsesRankTables is true if points of this race are looked up by rank
// (finish points, sprint points).
func (r Race) UsesRankTables() bool {
	return !r.IsTimeTrial()
}

func (r Race) EffectiveMode() ScoringMode {
	if r.Mode == "" {
		return ScoringModeSingle
	}
	return r.Mode
}

// CategoryConfig returns the scoring configuration for the given category.
// Values missing in a configured category are taken from the race.
// In single mode every category without explicit config uses the race level
// settings. In multi mode only configured categories exist.
func (r Race) CategoryConfig(category string) (CategoryConfig, bool) {
	idx := slices.IndexFunc(r.Categories, func(c CategoryConfig) bool {
		return c.Category == category
	})
	if idx != -1 {
		ret := r.Categories[idx]
		if ret.Laps == 0 {
			ret.Laps = r.Laps
		}
		if ret.SegmentType == "" {
			ret.SegmentType = r.SegmentType
		}
		if ret.Segments == nil && r.EffectiveMode() == ScoringModeSingle {
			ret.Segments = r.Segments
		}
		return ret, true
	}
	if r.EffectiveMode() == ScoringModeMulti {
		return CategoryConfig{}, false
	}
	return CategoryConfig{
		Category:    category,
		Laps:        r.Laps,
		Segments:    r.Segments,
		SegmentType: r.SegmentType,
	}, true
}

// CategoryForSource returns the custom category mapped to an external result
// source (multi mode).
func (r Race) CategoryForSource(sourceID string) (string, bool) {
	for _, c := range r.Categories {
		if c.SourceID != "" && c.SourceID == sourceID {
			return c.Category, true
		}
	}
	return "", false
}

func (r Race) TotalDistance(route Route, category string) float64 {
	return route.TotalDistance(r.lapsFor(category))
}

func (r Race) TotalElevation(route Route, category string) float64 {
	return route.TotalElevation(r.lapsFor(category))
}

func (r Race) lapsFor(category string) int {
	if cfg, ok := r.CategoryConfig(category); ok {
		return cfg.Laps
	}
	return r.Laps
}
