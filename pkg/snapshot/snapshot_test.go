//nolint:funlen,lll // ok for tests
package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing/adjudication"
	"github.com/mpapenbr/league-results/testsupport/sampledata"
)

const legacyDoc = `
settings:
  finishPoints: [10, 8]
  sprintPoints: [3, 1]
races:
  - id: r1
    name: Race
    date: 2024-01-01T19:00:00Z
    type: points
    sprints:
      - {id: "5", count: 1, lap: 1}
results:
  r1:
    A:
      - zwiftId: "1"
        name: Anna
        finishTime: 1000
        sprintData:
          "5_1_1": 3
          "5_1": "12:00:00.500"
          "x": {worldTime: 100, time: 50}
          "y": ""
adjudication:
  r1:
    manualDQs: ["1"]
`

func sampleLeague() *League {
	l := &League{
		Settings:     sampledata.SampleSettings(),
		Routes:       []model.Route{sampledata.SampleRoute()},
		Races:        sampledata.SampleRaces(),
		Adjudication: map[string]model.AdjudicationFlags{},
	}
	for raceID, rr := range sampledata.SampleResults() {
		for cat, riders := range rr.Categories {
			l.SetResults(raceID, cat, riders)
		}
	}
	l.Results["r1"][sampledata.Category][0].Stored = &model.StoredScore{
		TotalPoints: 20, Status: model.StatusClean, ComputedAt: sampledata.TestTime(),
	}
	l.Results["r1"][sampledata.Category][1].Segments["10_1_1"] = model.SegmentValue{Detail: new(int64)}
	return l
}

func TestDecode_Legacy(t *testing.T) {
	l, err := Decode([]byte(legacyDoc))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC), l.Races[0].Date)
	seg := l.Results["r1"]["A"][0].Segments
	points, ok := seg["5_1_1"].Points()
	assert.True(t, ok)
	assert.Equal(t, 3, points)
	assert.Equal(t, int64(43200500), seg["5_1"].WorldTime)
	assert.Equal(t, model.SegmentValue{WorldTime: 100, ElapsedTime: 50}, seg["x"])
	assert.True(t, seg["y"].IsEmpty())
	assert.Equal(t, []string{"1"}, l.Adjudication["r1"].ManualDQs)
	assert.Equal(t, []string{"A"}, l.Categories())
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"league.yml", "league.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleLeague()
			assert.NoError(t, Save(path, want))
			got, err := Load(path)
			assert.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
			entries, _ := os.ReadDir(filepath.Dir(path))
			assert.Len(t, entries, 1, "no temp files left")
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = Decode([]byte("races: ["))
	assert.Error(t, err)
}

func TestLeague_Adjudication(t *testing.T) {
	l, err := Decode([]byte(legacyDoc))
	assert.NoError(t, err)
	state, err := l.AdjudicationState()
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDisqualified, state.Status("r1", "1"))

	_, err = state.ClearDisqualification("r1", "1")
	assert.NoError(t, err)
	l.ApplyAdjudication(state)
	_, ok := l.Adjudication["r1"]
	assert.False(t, ok, "race without flags is removed")

	_, err = state.Exclude("r1", "1")
	assert.NoError(t, err)
	l.ApplyAdjudication(state)
	assert.Equal(t, []string{"1"}, l.Adjudication["r1"].ManualExclusions)

	l.Adjudication["r1"] = model.AdjudicationFlags{ManualDQs: []string{"1"}, ManualExclusions: []string{"1"}}
	_, err = l.AdjudicationState()
	assert.True(t, errors.Is(err, adjudication.ErrInconsistentFlags))
}

func TestLeague_NewProcessor(t *testing.T) {
	l := sampleLeague()
	l.Adjudication["r1"] = model.AdjudicationFlags{ManualDQs: []string{"b"}}
	p, err := l.NewProcessor()
	assert.NoError(t, err)
	race, ok := l.Race("r1")
	assert.True(t, ok)
	res, err := p.ComputeCategoryResults(race, sampledata.Category, l.Results["r1"][sampledata.Category])
	assert.NoError(t, err)
	b, _ := res.Row("b")
	assert.Equal(t, model.StatusDisqualified, b.Status)
	_, ok = l.Route("watopia-flat")
	assert.True(t, ok)
	_, ok = l.Race("nope")
	assert.False(t, ok)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "league.yml")
	l := sampleLeague()
	assert.NoError(t, Save(path, l))

	s := NewStore()
	first, err := s.Get(ctx, path)
	assert.NoError(t, err)
	second, _ := s.Get(ctx, path)
	assert.Same(t, first, second, "unchanged file is served from cache")

	l.Races = l.Races[:1]
	assert.NoError(t, Save(path, l))
	third, err := s.Get(ctx, path)
	assert.NoError(t, err)
	assert.Len(t, third.Races, 1)

	s.Invalidate(ctx, path)
	fourth, _ := s.Get(ctx, path)
	assert.NotSame(t, third, fourth)

	_, err = s.Get(ctx, filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
