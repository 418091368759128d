//nolint:funlen // ok for tests
package standings

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/league-results/pkg/model"
)

func TestAggregate(t *testing.T) {
	type args struct {
		perRace []RacePoints
		best    int
	}
	tests := []struct {
		name string
		args args
		want Result
	}{
		{
			name: "best two of three",
			args: args{perRace: []RacePoints{{"r1", 10}, {"r2", 20}, {"r3", 5}}, best: 2},
			want: Result{RiderID: "x", BestTotal: 30, CountedRaceIDs: []string{"r2", "r1"}},
		},
		{
			name: "fewer races than best",
			args: args{perRace: []RacePoints{{"r1", 10}, {"r2", 20}}, best: 5},
			want: Result{RiderID: "x", BestTotal: 30, CountedRaceIDs: []string{"r2", "r1"}},
		},
		{
			name: "tie keeps earlier race",
			args: args{perRace: []RacePoints{{"r1", 10}, {"r2", 20}, {"r3", 10}}, best: 2},
			want: Result{RiderID: "x", BestTotal: 30, CountedRaceIDs: []string{"r2", "r1"}},
		},
		{
			name: "no races",
			args: args{perRace: nil, best: 3},
			want: Result{RiderID: "x", BestTotal: 0, CountedRaceIDs: []string{}},
		},
		{
			name: "best zero counts all",
			args: args{perRace: []RacePoints{{"r1", 1}, {"r2", 2}}, best: 0},
			want: Result{RiderID: "x", BestTotal: 3, CountedRaceIDs: []string{"r2", "r1"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate("x", tt.args.perRace, tt.args.best)
			assert.DeepEqual(t, tt.want, got)
		})
	}
}

func TestAggregate_AtMostBest(t *testing.T) {
	perRace := []RacePoints{{"a", 3}, {"b", 9}, {"c", 1}, {"d", 7}, {"e", 4}, {"f", 8}}
	for best := 1; best <= len(perRace)+1; best++ {
		got := Aggregate("x", perRace, best)
		assert.Assert(t, len(got.CountedRaceIDs) <= best)
		assert.Assert(t, len(got.CountedRaceIDs) <= len(perRace))
	}
}

func TestTable(t *testing.T) {
	entries := []model.StandingsEntry{
		{ZwiftID: "1", Name: "Carl", BestTotal: 30, LastRacePoints: 5},
		{ZwiftID: "2", Name: "Anna", BestTotal: 40, LastRacePoints: 0},
		{ZwiftID: "3", Name: "Bert", BestTotal: 30, LastRacePoints: 10},
		{ZwiftID: "4", Name: "Bert", BestTotal: 30, LastRacePoints: 10},
	}
	got := Table(entries)
	ids := []string{}
	for i, e := range got {
		assert.Equal(t, i+1, e.Rank)
		ids = append(ids, e.ZwiftID)
	}
	assert.DeepEqual(t, []string{"2", "3", "4", "1"}, ids)
	// input untouched
	assert.Equal(t, 0, entries[0].Rank)

	byName := Table(entries, WithTieBreak(func(a, b *model.StandingsEntry) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	}))
	assert.Equal(t, "3", byName[1].ZwiftID)
	assert.Equal(t, "4", byName[2].ZwiftID)
	assert.Equal(t, "1", byName[3].ZwiftID)
}

func TestBuilder(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 19, 0, 0, 0, time.UTC) }
	races := []model.Race{{ID: "r1", Date: day(1)}, {ID: "r2", Date: day(8)}, {ID: "r3", Date: day(15)}}

	b := NewBuilder(2)
	b.Add(races[0], "a", "Anna", 10)
	b.Add(races[0], "b", "Bert", 12)
	b.Add(races[1], "a", "Anna", 20)
	b.Add(races[2], "a", "Anna R.", 5)
	b.Add(races[2], "b", "", 18)

	got := b.Entries()
	assert.Equal(t, 2, len(got))
	assert.DeepEqual(t, model.StandingsEntry{
		Rank:      1,
		ZwiftID:   "b",
		Name:      "Bert",
		BestTotal: 30,
		RaceCount: 2,
		Results: []model.RaceResult{
			{RaceID: "r1", Points: 12, Counted: true},
			{RaceID: "r3", Points: 18, Counted: true},
		},
		LastRacePoints: 18,
		LastRaceDate:   day(15),
	}, got[0])
	assert.Equal(t, "a", got[1].ZwiftID)
	assert.Equal(t, "Anna R.", got[1].Name)
	assert.Equal(t, 30, got[1].BestTotal)
	assert.Equal(t, 3, got[1].RaceCount)
	assert.DeepEqual(t, []model.RaceResult{
		{RaceID: "r1", Points: 10, Counted: true},
		{RaceID: "r2", Points: 20, Counted: true},
		{RaceID: "r3", Points: 5, Counted: false},
	}, got[1].Results)
}
