// Package standings aggregates race results into the league table.
package standings

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/pkg/model"
)

type (
	// RacePoints is the contribution of one race to a rider's standing
	RacePoints struct {
		RaceID string
		Points int
	}
	// Result is the best-N aggregate of one rider
	Result struct {
		RiderID        string
		BestTotal      int
		CountedRaceIDs []string
	}
	// TieBreak orders entries with equal BestTotal
	TieBreak func(a, b *model.StandingsEntry) int
	Option   func(*tableConfig)

	tableConfig struct {
		tieBreak TieBreak
	}
)

// WithTieBreak replaces the default tie break (last race points desc, name,
// id).
func WithTieBreak(tb TieBreak) Option {
	return func(c *tableConfig) {
		c.tieBreak = tb
	}
}

// DefaultTieBreak prefers the better result in the most recent race.
func DefaultTieBreak(a, b *model.StandingsEntry) int {
	return cmp.Or(
		cmp.Compare(b.LastRacePoints, a.LastRacePoints),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.ZwiftID, b.ZwiftID))
}

// Aggregate sums the best races of a rider.
// perRace must be in chronological order. On equal points the earlier race
// is counted. A best value <= 0 counts every race.
func Aggregate(riderID string, perRace []RacePoints, best int) Result {
	sorted := slices.Clone(perRace)
	slices.SortStableFunc(sorted, func(a, b RacePoints) int {
		return cmp.Compare(b.Points, a.Points)
	})
	if best > 0 && len(sorted) > best {
		sorted = sorted[:best]
	}
	return Result{
		RiderID:        riderID,
		BestTotal:      lo.SumBy(sorted, func(rp RacePoints) int { return rp.Points }),
		CountedRaceIDs: lo.Map(sorted, func(rp RacePoints, _ int) string { return rp.RaceID }),
	}
}

// Table sorts the entries by BestTotal (desc) and assigns the ranks.
// The input is not modified.
func Table(entries []model.StandingsEntry, opts ...Option) []model.StandingsEntry {
	cfg := &tableConfig{tieBreak: DefaultTieBreak}
	for _, opt := range opts {
		opt(cfg)
	}
	ret := slices.Clone(entries)
	slices.SortStableFunc(ret, func(a, b model.StandingsEntry) int {
		return cmp.Or(
			cmp.Compare(b.BestTotal, a.BestTotal),
			cfg.tieBreak(&a, &b))
	})
	for i := range ret {
		ret[i].Rank = i + 1
	}
	return ret
}

type rider struct {
	id       string
	name     string
	results  []RacePoints
	lastDate time.Time
	lastPts  int
}

// Builder collects the contributions of riders race by race.
// Races have to be added in chronological order.
type Builder struct {
	best   int
	riders map[string]*rider
}

func NewBuilder(best int) *Builder {
	return &Builder{best: best, riders: make(map[string]*rider)}
}

// Add registers the points of a rider in a race.
// The latest name seen for a rider is used.
func (b *Builder) Add(race model.Race, riderID, name string, points int) {
	r, ok := b.riders[riderID]
	if !ok {
		r = &rider{id: riderID}
		b.riders[riderID] = r
	}
	if name != "" {
		r.name = name
	}
	r.results = append(r.results, RacePoints{RaceID: race.ID, Points: points})
	r.lastDate = race.Date
	r.lastPts = points
}

// Entries computes the league table
func (b *Builder) Entries(opts ...Option) []model.StandingsEntry {
	ids := lo.Keys(b.riders)
	slices.Sort(ids)
	entries := make([]model.StandingsEntry, 0, len(ids))
	for _, id := range ids {
		r := b.riders[id]
		agg := Aggregate(id, r.results, b.best)
		counted := lo.SliceToMap(agg.CountedRaceIDs, func(raceID string) (string, struct{}) {
			return raceID, struct{}{}
		})
		entries = append(entries, model.StandingsEntry{
			ZwiftID:   id,
			Name:      r.name,
			BestTotal: agg.BestTotal,
			RaceCount: len(r.results),
			Results: lo.Map(r.results, func(rp RacePoints, _ int) model.RaceResult {
				_, ok := counted[rp.RaceID]
				return model.RaceResult{RaceID: rp.RaceID, Points: rp.Points, Counted: ok}
			}),
			LastRacePoints: r.lastPts,
			LastRaceDate:   r.lastDate,
		})
	}
	return Table(entries, opts...)
}
