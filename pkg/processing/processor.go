// Package processing combines the scoring components into the operations
// used by the command line and other callers.
package processing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing/adjudication"
	"github.com/mpapenbr/league-results/pkg/processing/scoring"
	"github.com/mpapenbr/league-results/pkg/processing/segment"
	"github.com/mpapenbr/league-results/pkg/processing/standings"
	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownAction   = errors.New("unknown adjudication action")
)

type Action string

const (
	ActionDisqualify      Action = "dq"
	ActionDeclassify      Action = "declassify"
	ActionExclude         Action = "exclude"
	ActionClearDQ         Action = "clear-dq"
	ActionClearDeclassify Action = "clear-declassify"
	ActionClearExclude    Action = "clear-exclude"
)

// EditResult describes a manual change of raw segment data
type EditResult struct {
	RiderID    string
	SegmentKey string
	Old        int64
	New        int64
	EditedAt   time.Time
}

type Processor struct {
	settings model.LeagueSettings
	state    *adjudication.State
	scorer   *scoring.Scorer
	l        *log.Logger
}
type ProcessorOption func(proc *Processor)

func WithSettings(settings model.LeagueSettings) ProcessorOption {
	return func(proc *Processor) {
		proc.settings = settings
	}
}

func WithAdjudication(state *adjudication.State) ProcessorOption {
	return func(proc *Processor) {
		proc.state = state
	}
}

func WithLogger(l *log.Logger) ProcessorOption {
	return func(proc *Processor) {
		proc.l = l
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{
		l: log.Default().Named("processing"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.state == nil {
		ret.state = adjudication.NewState(adjudication.WithLogger(ret.l.Named("adjudication")))
	}
	ret.scorer = scoring.NewScorer(scoring.WithLogger(ret.l.Named("scoring")))
	return ret
}

func (p *Processor) Adjudication() *adjudication.State {
	return p.state
}

func (p *Processor) Settings() model.LeagueSettings {
	return p.settings
}

// ComputeCategoryResults computes the result table of one category.
// An error is only returned if the race has no config for the category.
//
//nolint:whitespace // readability
func (p *Processor) ComputeCategoryResults(
	race model.Race,
	category string,
	raw []model.RawRiderResult,
) (*model.CategoryResult, error) {
	cfg, ok := race.CategoryConfig(category)
	if !ok {
		return nil, fmt.Errorf("%w: race %s category %s", ErrUnknownCategory, race.ID, category)
	}
	return p.scorer.Compute(&scoring.Input{
		Race:     race,
		Config:   cfg,
		Riders:   raw,
		Settings: p.settings,
		Status:   p.state.StatusFunc(race.ID),
	}), nil
}

// ComputeStandings computes the league table of a category.
// The races are processed in chronological order, races without results
// or without config for the category are skipped.
//
//nolint:whitespace // readability
func (p *Processor) ComputeStandings(
	races []model.Race,
	category string,
	results map[string]model.RaceResults,
) []model.StandingsEntry {
	ordered := slices.Clone(races)
	slices.SortStableFunc(ordered, func(a, b model.Race) int {
		return cmp.Or(a.Date.Compare(b.Date), cmp.Compare(a.ID, b.ID))
	})
	b := standings.NewBuilder(p.settings.EffectiveBestRacesCount())
	for _, race := range ordered {
		raw, ok := results[race.ID].Categories[category]
		if !ok {
			p.l.Debug("no results", log.String("race", race.ID), log.String("category", category))
			continue
		}
		res, err := p.ComputeCategoryResults(race, category, raw)
		if err != nil {
			p.l.Debug("skipping race", log.String("race", race.ID), log.ErrorField(err))
			continue
		}
		for i := range res.Rows {
			row := &res.Rows[i]
			points := p.contribution(row)
			if !row.HasActivity && points == 0 {
				continue
			}
			b.Add(race, row.ZwiftID, row.Name, points)
		}
	}
	ret := b.Entries()
	p.l.Debug("computed standings",
		log.String("category", category),
		log.Int("races", len(ordered)),
		log.Int("riders", len(ret)))
	return ret
}

// excluded riders never show up in a result table
func (p *Processor) contribution(row *model.DisplayRow) int {
	switch {
	case row.Status == model.StatusDisqualified:
		return 0
	case p.settings.HasLeagueRankPoints():
		if row.LeaguePoints == nil {
			return 0
		}
		return *row.LeaguePoints
	default:
		return row.TotalPoints
	}
}

// EditWorldTime sets the world time of a rider at a segment.
// The raw data is not modified, a copy containing the change is returned.
// A time of day keeps the day of the previous value.
// A key of one of the configured segments is replaced by the key the
// category already uses for that segment.
//
//nolint:whitespace // readability
func (p *Processor) EditWorldTime(
	raw []model.RawRiderResult,
	segments []model.Segment,
	riderID, segmentKey, input string,
	now time.Time,
) ([]model.RawRiderResult, EditResult, error) {
	idx := slices.IndexFunc(raw, func(r model.RawRiderResult) bool { return r.ZwiftID == riderID })
	if idx == -1 {
		return raw, EditResult{}, fmt.Errorf("%w: rider %s", adjudication.ErrUnknownRider, riderID)
	}
	segmentKey = resolveEditKey(segments, raw, segmentKey)
	old := raw[idx].Segments[segmentKey]
	v, err := timecodec.ParseWorldTimeInput(input, old.Arrival())
	if err != nil {
		return raw, EditResult{}, err
	}
	ret := lo.Map(raw, func(r model.RawRiderResult, _ int) model.RawRiderResult { return r.Clone() })
	edited := &ret[idx]
	if edited.Segments == nil {
		edited.Segments = map[string]model.SegmentValue{}
	}
	next := old
	next.WorldTime = v
	edited.Segments[segmentKey] = next
	edited.EditedAt = now
	p.l.Debug("edited world time",
		log.String("rider", riderID),
		log.String("segment", segmentKey),
		log.Int64("old", old.Arrival()),
		log.Int64("new", v))
	return ret, EditResult{
		RiderID:    riderID,
		SegmentKey: segmentKey,
		Old:        old.Arrival(),
		New:        v,
		EditedAt:   now,
	}, nil
}

// resolveEditKey maps key onto the column key of the configured segment it
// refers to. Unknown keys are returned unchanged.
func resolveEditKey(segments []model.Segment, raw []model.RawRiderResult, key string) string {
	for _, col := range segment.Columns(segments, "", raw) {
		if col.Segment != nil && slices.Contains(col.Segment.CandidateKeys(), key) {
			return col.Key
		}
	}
	return key
}

// Adjudicate applies an action to a rider of a race.
// The riders of all categories of the race form the roster.
//
//nolint:whitespace // readability
func (p *Processor) Adjudicate(
	results model.RaceResults,
	riderID string,
	action Action,
) (adjudication.Transition, error) {
	p.state.SetRoster(results.RaceID, Roster(results))
	switch action {
	case ActionDisqualify:
		return p.state.Disqualify(results.RaceID, riderID)
	case ActionDeclassify:
		return p.state.Declassify(results.RaceID, riderID)
	case ActionExclude:
		return p.state.Exclude(results.RaceID, riderID)
	case ActionClearDQ:
		return p.state.ClearDisqualification(results.RaceID, riderID)
	case ActionClearDeclassify:
		return p.state.ClearDeclassification(results.RaceID, riderID)
	case ActionClearExclude:
		return p.state.ClearExclusion(results.RaceID, riderID)
	default:
		return adjudication.Transition{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Roster returns the sorted ids of all riders of a race
func Roster(results model.RaceResults) []string {
	ids := map[string]struct{}{}
	for _, riders := range results.Categories {
		for i := range riders {
			ids[riders[i].ZwiftID] = struct{}{}
		}
	}
	ret := lo.Keys(ids)
	slices.Sort(ret)
	return ret
}
