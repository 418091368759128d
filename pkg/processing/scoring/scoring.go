// Package scoring computes the result table of one race category.
package scoring

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing/segment"
	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
)

type (
	// Input is the immutable snapshot a category result is computed from.
	Input struct {
		Race     model.Race
		Config   model.CategoryConfig
		Riders   []model.RawRiderResult
		Settings model.LeagueSettings
		// Status returns the adjudication status of a rider. nil means clean.
		Status func(riderID string) model.Status
	}
	Option func(*Scorer)
	Scorer struct {
		l *log.Logger
	}

	entry struct {
		raw          model.RawRiderResult
		status       model.Status
		finishRank   int
		finishPoints int
		segPoints    int
		cells        []model.Cell
		finish       model.Cell
		leaguePoints *int
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Scorer) {
		s.l = l
	}
}

func NewScorer(opts ...Option) *Scorer {
	ret := &Scorer{l: log.Default().Named("processing.scoring")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compute produces the result table for the category described by in.
// The result only depends on in, calling it twice yields equal results.
func (s *Scorer) Compute(in *Input) *model.CategoryResult {
	entries := s.collect(in)
	riders := lo.Map(entries, func(e *entry, _ int) model.RawRiderResult { return e.raw })
	columns := segment.Columns(in.Config.Segments, in.Config.SegmentType, riders)
	if in.Race.IsTimeTrial() {
		// time trials don't award points, every segment is a timing point
		for i := range columns {
			columns[i].Type = model.SegmentTypeSplit
		}
	}
	for _, e := range entries {
		e.cells = make([]model.Cell, len(columns))
	}

	if in.Race.IsTimeTrial() {
		s.rankTimeTrial(entries, columns)
	} else {
		s.rankFinish(entries, in.Settings.FinishPoints)
	}
	for i := range columns {
		if columns[i].Type == model.SegmentTypeSplit {
			s.splitColumn(entries, i, columns[i].Key)
		} else {
			s.sprintColumn(entries, i, columns[i].Key, in.Settings.SprintPoints)
		}
	}
	s.finishCells(entries)

	if in.Race.IsTimeTrial() {
		sortTimeTrial(entries, columns)
	} else {
		sortPoints(entries)
	}
	if in.Settings.HasLeagueRankPoints() {
		assignLeaguePoints(entries, in, columns)
	}

	ret := &model.CategoryResult{
		RaceID:   in.Race.ID,
		Category: in.Config.Category,
		RaceType: in.Race.Type,
		Columns:  columns,
		Rows:     make([]model.DisplayRow, 0, len(entries)),
	}
	for i, e := range entries {
		ret.Rows = append(ret.Rows, e.toRow(i+1, in.Race))
	}
	s.l.Debug("computed category",
		log.String("race", in.Race.ID),
		log.String("category", in.Config.Category),
		log.Int("riders", len(ret.Rows)),
		log.Int("columns", len(columns)))
	return ret
}

// collect drops excluded riders and resolves the status of the others.
// The entries are ordered by rider id to be independent of the input order.
func (s *Scorer) collect(in *Input) []*entry {
	ret := make([]*entry, 0, len(in.Riders))
	for i := range in.Riders {
		st := model.StatusClean
		if in.Status != nil {
			st = in.Status(in.Riders[i].ZwiftID).Normalize()
		}
		if st == model.StatusExcluded {
			continue
		}
		ret = append(ret, &entry{raw: in.Riders[i], status: st})
	}
	slices.SortStableFunc(ret, func(a, b *entry) int {
		return cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID)
	})
	return ret
}

// rankFinish assigns finish ranks and finish points.
// Clean riders are ranked by finish time, declassified riders get the points
// of the place after the last clean finisher, disqualified riders get
// nothing.
func (s *Scorer) rankFinish(entries []*entry, finishPoints []int) {
	valid := lo.Filter(entries, func(e *entry, _ int) bool {
		return e.status == model.StatusClean && e.raw.Finished()
	})
	slices.SortStableFunc(valid, compareFinish)
	for i, e := range valid {
		e.finishRank = i + 1
		e.finishPoints = model.PointsAt(finishPoints, i)
	}
	lastPlace := len(valid)
	for _, e := range entries {
		if e.status == model.StatusDeclassified {
			e.finishRank = lastPlace + 1
			e.finishPoints = model.PointsAt(finishPoints, lastPlace)
		}
	}
}

// sprintColumn awards points for a sprint segment.
// Riders are ranked by the time they crossed the segment (first across the
// line). Precomputed points stored with the raw data take precedence.
func (s *Scorer) sprintColumn(entries []*entry, col int, key string, sprintPoints []int) {
	type effort struct {
		e   *entry
		val model.SegmentValue
	}
	efforts := make([]effort, 0, len(entries))
	for _, e := range entries {
		val, ok := e.raw.Segments[key]
		if !ok || val.IsEmpty() {
			e.cells[col] = emptyCell()
			continue
		}
		if e.status == model.StatusDisqualified {
			if val.WorldTime > 0 {
				e.cells[col] = model.Cell{
					Kind:    model.CellArrival,
					Millis:  val.WorldTime,
					Display: timecodec.FormatTimeOfDay(val.WorldTime),
				}
			} else {
				e.cells[col] = emptyCell()
			}
			continue
		}
		efforts = append(efforts, effort{e: e, val: val})
	}
	ranked := lo.Filter(efforts, func(item effort, _ int) bool { return item.val.WorldTime > 0 })
	slices.SortStableFunc(ranked, func(a, b effort) int {
		return cmp.Or(
			cmp.Compare(a.val.WorldTime, b.val.WorldTime),
			cmp.Compare(a.val.ElapsedTime, b.val.ElapsedTime),
			cmp.Compare(a.e.raw.ZwiftID, b.e.raw.ZwiftID))
	})
	rankOf := make(map[*entry]int, len(ranked))
	for i, item := range ranked {
		rankOf[item.e] = i
	}
	for _, item := range efforts {
		points, ok := item.val.Points()
		if !ok {
			idx, isRanked := rankOf[item.e]
			if !isRanked {
				item.e.cells[col] = emptyCell()
				continue
			}
			points = model.PointsAt(sprintPoints, idx)
		}
		item.e.segPoints += points
		item.e.cells[col] = model.Cell{
			Kind:    model.CellPoints,
			Points:  points,
			Display: strconv.Itoa(points),
		}
	}
}

// splitColumn shows the gap to the first rider crossing the split.
// Disqualified riders never become the leader, they show their own time.
func (s *Scorer) splitColumn(entries []*entry, col int, key string) {
	values := lo.Map(entries, func(e *entry, _ int) int64 {
		return e.raw.Segments[key].Arrival()
	})
	for i, d := range LeaderDeltas(values, notDisqualified(entries)) {
		entries[i].cells[col] = d.toCell(timecodec.FormatTimeOfDay)
	}
}

func (s *Scorer) finishCells(entries []*entry) {
	values := lo.Map(entries, func(e *entry, _ int) int64 { return e.raw.FinishTime })
	for i, d := range LeaderDeltas(values, notDisqualified(entries)) {
		entries[i].finish = d.toCell(timecodec.FormatElapsed)
	}
}

func notDisqualified(entries []*entry) func(i int) bool {
	return func(i int) bool { return entries[i].status != model.StatusDisqualified }
}

func (e *entry) total() int {
	if e.status == model.StatusDisqualified {
		return 0
	}
	return e.finishPoints + e.segPoints
}

func (e *entry) hasActivity() bool {
	return e.raw.HasActivity() || e.total() > 0
}

// stale reports whether the stored total was computed with a different
// adjudication status or before the last manual edit of the raw data.
func (e *entry) stale(race model.Race) bool {
	stored := e.raw.Stored
	if !race.UsesRankTables() || stored == nil {
		return false
	}
	if stored.Status.Normalize() != e.status {
		return true
	}
	return !e.raw.EditedAt.IsZero() && e.raw.EditedAt.After(stored.ComputedAt)
}

func (e *entry) toRow(pos int, race model.Race) model.DisplayRow {
	ret := model.DisplayRow{
		Position:     pos,
		ZwiftID:      e.raw.ZwiftID,
		Name:         e.raw.Name,
		Status:       e.status,
		FinishTime:   e.raw.FinishTime,
		FinishRank:   e.finishRank,
		Finish:       e.finish,
		Cells:        e.cells,
		LeaguePoints: e.leaguePoints,
		HasActivity:  e.hasActivity(),
		Stale:        e.stale(race),
	}
	if race.UsesRankTables() && e.status != model.StatusDisqualified {
		ret.FinishPoints = e.finishPoints
		ret.SegmentPoints = e.segPoints
		ret.TotalPoints = e.total()
	}
	return ret
}

// compareFinish orders finishers by time. Equal times are resolved by the
// rank delivered by the timing provider.
func compareFinish(a, b *entry) int {
	return cmp.Or(
		cmp.Compare(a.raw.FinishTime, b.raw.FinishTime),
		cmp.Compare(rankKey(a.raw.FinishRank), rankKey(b.raw.FinishRank)),
		cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID))
}

// rankKey maps "no rank" (0) behind every real rank
func rankKey(rank int) int {
	if rank <= 0 {
		return math.MaxInt
	}
	return rank
}

func boolKey(b bool) int {
	if b {
		return 0
	}
	return 1
}

// sortPoints orders points and scratch races: total (desc), finishers
// before non-finishers, finish time. Disqualified riders are listed last.
func sortPoints(entries []*entry) {
	slices.SortStableFunc(entries, func(a, b *entry) int {
		return cmp.Or(
			cmp.Compare(boolKey(a.status != model.StatusDisqualified),
				boolKey(b.status != model.StatusDisqualified)),
			cmp.Compare(b.total(), a.total()),
			cmp.Compare(boolKey(a.raw.Finished()), boolKey(b.raw.Finished())),
			cmp.Compare(a.raw.FinishTime, b.raw.FinishTime),
			cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID))
	})
}
