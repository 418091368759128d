// Package sampledata provides a small league used by tests.
package sampledata

import (
	"time"

	"github.com/mpapenbr/league-results/pkg/model"
)

const Category = "A"

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func raceDate(day int) time.Time {
	return time.Date(2024, 1, day, 19, 0, 0, 0, time.UTC)
}

func at(worldTime int64) model.SegmentValue {
	return model.SegmentValue{WorldTime: worldTime}
}

func SampleSettings() model.LeagueSettings {
	return model.LeagueSettings{
		FinishPoints:   []int{20, 15, 12, 10, 8},
		SprintPoints:   []int{5, 3, 1},
		BestRacesCount: 2,
	}
}

func SampleRoute() model.Route {
	return model.Route{
		ID:              "watopia-flat",
		Name:            "Watopia Flat",
		Distance:        10.5,
		Elevation:       100,
		LeadInDistance:  1.2,
		LeadInElevation: 10,
	}
}

// SampleRaces returns a points race, a scratch race and a time trial,
// intentionally not in chronological order.
func SampleRaces() []model.Race {
	return []model.Race{
		{
			ID: "r3", Name: "Time Trial", Date: raceDate(15), RouteID: "watopia-flat", Laps: 1,
			Type:     model.RaceTypeTimeTrial,
			Segments: []model.Segment{{ID: "20", Count: 1, Lap: 1, Name: "Split", Type: model.SegmentTypeSplit}},
		},
		{
			ID: "r1", Name: "Points Race", Date: raceDate(1), RouteID: "watopia-flat", Laps: 2,
			Type:     model.RaceTypePoints,
			Segments: []model.Segment{{ID: "10", Count: 1, Lap: 1, Name: "Banner"}},
		},
		{
			ID: "r2", Name: "Scratch Race", Date: raceDate(8), RouteID: "watopia-flat", Laps: 3,
			Type: model.RaceTypeScratch,
		},
	}
}

// SampleResults returns the raw results of SampleRaces for Category.
func SampleResults() map[string]model.RaceResults {
	return map[string]model.RaceResults{
		"r1": {RaceID: "r1", Categories: map[string][]model.RawRiderResult{Category: {
			{ZwiftID: "a", Name: "Anna", FinishTime: 3600000, Segments: map[string]model.SegmentValue{"10_1_1": at(1000)}},
			{ZwiftID: "b", Name: "Bert", FinishTime: 3590000, Segments: map[string]model.SegmentValue{"10_1_1": at(1200)}},
			{ZwiftID: "c", Name: "Carl", Segments: map[string]model.SegmentValue{"10_1_1": at(1100)}},
			{ZwiftID: "d", Name: "Dora"},
		}}},
		"r2": {RaceID: "r2", Categories: map[string][]model.RawRiderResult{Category: {
			{ZwiftID: "a", Name: "Anna", FinishTime: 3000000},
			{ZwiftID: "b", Name: "Bert", FinishTime: 3100000},
			{ZwiftID: "c", Name: "Carl", FinishTime: 2900000},
		}}},
		"r3": {RaceID: "r3", Categories: map[string][]model.RawRiderResult{Category: {
			{ZwiftID: "a", Name: "Anna", FinishTime: 1800000, Segments: map[string]model.SegmentValue{"20_1_1": at(900000)}},
			{ZwiftID: "b", Name: "Bert", Segments: map[string]model.SegmentValue{"20_1_1": at(950000)}},
			{ZwiftID: "c", Name: "Carl"},
		}}},
	}
}
