//nolint:funlen,lll // ok for tests
package processing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing/adjudication"
	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
	"github.com/mpapenbr/league-results/testsupport/sampledata"
)

func sampleProcessor(opts ...ProcessorOption) *Processor {
	return NewProcessor(append([]ProcessorOption{WithSettings(sampledata.SampleSettings())}, opts...)...)
}

func raceByID(id string) model.Race {
	race, _ := lo.Find(sampledata.SampleRaces(), func(r model.Race) bool { return r.ID == id })
	return race
}

func totals(entries []model.StandingsEntry) map[string]int {
	return lo.SliceToMap(entries, func(e model.StandingsEntry) (string, int) { return e.ZwiftID, e.BestTotal })
}

func order(entries []model.StandingsEntry) []string {
	return lo.Map(entries, func(e model.StandingsEntry, _ int) string { return e.ZwiftID })
}

func TestProcessor_ComputeStandings(t *testing.T) {
	p := sampleProcessor()
	got := p.ComputeStandings(sampledata.SampleRaces(), sampledata.Category, sampledata.SampleResults())

	assert.Equal(t, []string{"a", "b", "c"}, order(got))
	assert.Equal(t, map[string]int{"a": 35, "b": 33, "c": 23}, totals(got))

	a := got[0]
	assert.Equal(t, 3, a.RaceCount)
	assert.Equal(t, []model.RaceResult{
		{RaceID: "r1", Points: 20, Counted: true},
		{RaceID: "r2", Points: 15, Counted: true},
		{RaceID: "r3", Points: 0, Counted: false},
	}, a.Results)
	assert.Equal(t, 0, a.LastRacePoints)
	assert.Equal(t, raceByID("r3").Date, a.LastRaceDate)
	assert.Equal(t, 2, got[2].RaceCount, "rider without activity is skipped")
}

func TestProcessor_ComputeStandingsAdjudicated(t *testing.T) {
	results := sampledata.SampleResults()
	tests := []struct {
		name      string
		action    Action
		wantOrder []string
		want      map[string]int
		wantCount int
	}{
		{name: "disqualified", action: ActionDisqualify, wantOrder: []string{"a", "c", "b"}, want: map[string]int{"a": 40, "b": 12, "c": 23}, wantCount: 3},
		{name: "excluded", action: ActionExclude, wantOrder: []string{"a", "c", "b"}, want: map[string]int{"a": 40, "b": 12, "c": 23}, wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProcessor()
			tr, err := p.Adjudicate(results["r1"], "b", tt.action)
			assert.NoError(t, err)
			assert.True(t, tr.Changed())

			got := p.ComputeStandings(sampledata.SampleRaces(), sampledata.Category, results)
			assert.Equal(t, tt.wantOrder, order(got))
			assert.Equal(t, tt.want, totals(got))
			b, _ := lo.Find(got, func(e model.StandingsEntry) bool { return e.ZwiftID == "b" })
			assert.Equal(t, tt.wantCount, b.RaceCount)
		})
	}
}

func TestProcessor_ExcludeAndRestore(t *testing.T) {
	results := sampledata.SampleResults()
	p := sampleProcessor()
	before := p.ComputeStandings(sampledata.SampleRaces(), sampledata.Category, results)
	beforeRace, err := p.ComputeCategoryResults(raceByID("r1"), sampledata.Category, results["r1"].Categories[sampledata.Category])
	assert.NoError(t, err)

	_, err = p.Adjudicate(results["r1"], "b", ActionExclude)
	assert.NoError(t, err)
	_, err = p.Adjudicate(results["r1"], "b", ActionClearExclude)
	assert.NoError(t, err)

	after := p.ComputeStandings(sampledata.SampleRaces(), sampledata.Category, results)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("standings mismatch (-before +after):\n%s", diff)
	}
	afterRace, _ := p.ComputeCategoryResults(raceByID("r1"), sampledata.Category, results["r1"].Categories[sampledata.Category])
	if diff := cmp.Diff(beforeRace, afterRace); diff != "" {
		t.Errorf("category result mismatch (-before +after):\n%s", diff)
	}
}

func TestProcessor_LeagueRankPoints(t *testing.T) {
	settings := sampledata.SampleSettings()
	settings.LeagueRankPoints = []int{10, 8, 6, 4}
	settings.BestRacesCount = 5
	p := NewProcessor(WithSettings(settings))
	got := p.ComputeStandings(sampledata.SampleRaces(), sampledata.Category, sampledata.SampleResults())
	assert.Equal(t, map[string]int{"a": 26, "b": 24, "c": 16}, totals(got))
	assert.Equal(t, []string{"a", "b", "c"}, order(got))
}

func TestProcessor_ComputeCategoryResults(t *testing.T) {
	p := sampleProcessor()
	res, err := p.ComputeCategoryResults(raceByID("r1"), sampledata.Category, sampledata.SampleResults()["r1"].Categories[sampledata.Category])
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, lo.Map(res.Rows, func(r model.DisplayRow, _ int) string { return r.ZwiftID }))
	assert.Equal(t, 21, res.Rows[0].TotalPoints)

	multi := model.Race{
		ID: "m1", Type: model.RaceTypePoints, Mode: model.ScoringModeMulti,
		Categories: []model.CategoryConfig{{Category: "Open", SourceID: "src1"}},
	}
	_, err = p.ComputeCategoryResults(multi, "B", nil)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	res, err = p.ComputeCategoryResults(multi, "Open", []model.RawRiderResult{{ZwiftID: "x", FinishTime: 10}})
	assert.NoError(t, err)
	assert.Equal(t, "Open", res.Category)
}

func TestProcessor_EditWorldTime(t *testing.T) {
	p := sampleProcessor()
	race := raceByID("r1")
	raw := sampledata.SampleResults()["r1"].Categories[sampledata.Category]
	raw[2].Stored = &model.StoredScore{TotalPoints: 3, Status: model.StatusClean, ComputedAt: sampledata.TestTime().Add(-time.Hour)}

	edited, res, err := p.EditWorldTime(raw, race.Segments, "c", "10_1_1", "900", sampledata.TestTime())
	assert.NoError(t, err)
	assert.Equal(t, EditResult{RiderID: "c", SegmentKey: "10_1_1", Old: 1100, New: 900, EditedAt: sampledata.TestTime()}, res)
	assert.Equal(t, int64(1100), raw[2].Segments["10_1_1"].WorldTime, "input is not modified")
	assert.True(t, raw[2].EditedAt.IsZero())

	cr, err := p.ComputeCategoryResults(race, sampledata.Category, edited)
	assert.NoError(t, err)
	c, _ := cr.Row("c")
	assert.Equal(t, 5, c.SegmentPoints)
	assert.True(t, c.Stale)
	a, _ := cr.Row("a")
	assert.Equal(t, 3, a.SegmentPoints)
}

func TestProcessor_EditWorldTimeLegacyKey(t *testing.T) {
	p := sampleProcessor()
	race := raceByID("r1")
	raw := []model.RawRiderResult{
		{ZwiftID: "a", Name: "Anna", FinishTime: 3600000, Segments: map[string]model.SegmentValue{"10_1": {WorldTime: 1000}}},
		{ZwiftID: "b", Name: "Bert", FinishTime: 3590000, Segments: map[string]model.SegmentValue{"10_1": {WorldTime: 1200}}},
	}
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "primary key", key: "10_1_1", want: "10_1"},
		{name: "stored key", key: "10_1", want: "10_1"},
		{name: "bare id", key: "10", want: "10_1"},
		{name: "unknown key", key: "99_1_1", want: "99_1_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited, res, err := p.EditWorldTime(raw, race.Segments, "b", tt.key, "800", sampledata.TestTime())
			assert.NoError(t, err)
			assert.Equal(t, tt.want, res.SegmentKey)
			assert.Equal(t, int64(800), edited[1].Segments[tt.want].WorldTime)
		})
	}

	edited, _, err := p.EditWorldTime(raw, race.Segments, "b", "10_1_1", "800", sampledata.TestTime())
	assert.NoError(t, err)
	_, found := edited[1].Segments["10_1_1"]
	assert.False(t, found)
	cr, err := p.ComputeCategoryResults(race, sampledata.Category, edited)
	assert.NoError(t, err)
	assert.Len(t, cr.Columns, 1, "no extra column for the edited rider")
	assert.Equal(t, "10_1", cr.Columns[0].Key)
	b, _ := cr.Row("b")
	assert.Equal(t, 5, b.SegmentPoints)
}

func TestProcessor_EditWorldTimeErrors(t *testing.T) {
	p := sampleProcessor()
	raw := sampledata.SampleResults()["r1"].Categories[sampledata.Category]
	tests := []struct {
		name    string
		rider   string
		input   string
		wantErr error
	}{
		{name: "malformed", rider: "c", input: "12:xx", wantErr: timecodec.ErrMalformedTimeInput},
		{name: "minutes out of range", rider: "c", input: "01:75:00", wantErr: timecodec.ErrMalformedTimeInput},
		{name: "unknown rider", rider: "zz", input: "900", wantErr: adjudication.ErrUnknownRider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, err := p.EditWorldTime(raw, nil, tt.rider, "10_1_1", tt.input, sampledata.TestTime())
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, EditResult{}, res)
			assert.Equal(t, raw, got)
		})
	}
}

func TestProcessor_Adjudicate(t *testing.T) {
	p := sampleProcessor()
	results := sampledata.SampleResults()["r2"]

	_, err := p.Adjudicate(results, "a", Action("ban"))
	assert.True(t, errors.Is(err, ErrUnknownAction))
	_, err = p.Adjudicate(results, "d", ActionDisqualify)
	assert.True(t, errors.Is(err, adjudication.ErrUnknownRider))

	tr, err := p.Adjudicate(results, "a", ActionDeclassify)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDeclassified, tr.To)
	tr, err = p.Adjudicate(results, "a", ActionClearDQ)
	assert.NoError(t, err)
	assert.False(t, tr.Changed())
	tr, err = p.Adjudicate(results, "a", ActionClearDeclassify)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusClean, tr.To)
	assert.Equal(t, []string{"a", "b", "c"}, Roster(results))
}
