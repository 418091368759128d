package scoring

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/pkg/model"
)

// progress is the furthest configured split a rider has crossed
type progress struct {
	idx     int   // -1: no split crossed
	arrival int64 // time at that split
}

func (s *Scorer) rankTimeTrial(entries []*entry, columns []model.Column) {
	finishers := lo.Filter(entries, func(e *entry, _ int) bool {
		return e.status == model.StatusClean && e.raw.Finished()
	})
	slices.SortStableFunc(finishers, compareFinish)
	for i, e := range finishers {
		e.finishRank = i + 1
	}
	for _, e := range entries {
		if e.status == model.StatusDeclassified {
			e.finishRank = len(finishers) + 1
		}
	}
}

func furthest(e *entry, columns []model.Column) progress {
	for i := len(columns) - 1; i >= 0; i-- {
		if !columns[i].Configured {
			continue
		}
		if v := e.raw.Segments[columns[i].Key].Arrival(); v > 0 {
			return progress{idx: i, arrival: v}
		}
	}
	return progress{idx: -1, arrival: math.MaxInt64}
}

// compareTimeTrial orders by finish time for finishers, then by the
// furthest split reached (earlier arrival first), riders without any
// progress are last. A finisher always ranks above a non-finisher.
func compareTimeTrial(columns []model.Column) func(a, b *entry) int {
	return func(a, b *entry) int {
		if a.raw.Finished() != b.raw.Finished() {
			return boolKey(a.raw.Finished()) - boolKey(b.raw.Finished())
		}
		if a.raw.Finished() {
			return compareFinish(a, b)
		}
		pa, pb := furthest(a, columns), furthest(b, columns)
		return cmp.Or(
			cmp.Compare(pb.idx, pa.idx),
			cmp.Compare(pa.arrival, pb.arrival),
			cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID))
	}
}

func statusGroup(st model.Status) int {
	switch st {
	case model.StatusClean:
		return 0
	case model.StatusDeclassified:
		return 1
	case model.StatusDisqualified, model.StatusExcluded:
		return 2
	}
	return 0
}

// sortTimeTrial lists clean riders first, then declassified and finally
// disqualified riders.
func sortTimeTrial(entries []*entry, columns []model.Column) {
	byProgress := compareTimeTrial(columns)
	slices.SortStableFunc(entries, func(a, b *entry) int {
		return cmp.Or(
			cmp.Compare(statusGroup(a.status), statusGroup(b.status)),
			byProgress(a, b))
	})
}
