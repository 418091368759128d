package model

import "time"

type RaceResult struct {
	RaceID  string `json:"raceId" yaml:"raceId"`
	Points  int    `json:"points" yaml:"points"`
	Counted bool   `json:"counted" yaml:"counted"`
}

type StandingsEntry struct {
	Rank           int          `json:"rank" yaml:"rank"`
	ZwiftID        string       `json:"zwiftId" yaml:"zwiftId"`
	Name           string       `json:"name" yaml:"name"`
	BestTotal      int          `json:"totalPoints" yaml:"totalPoints"`
	RaceCount      int          `json:"raceCount" yaml:"raceCount"`
	Results        []RaceResult `json:"results" yaml:"results"`
	LastRacePoints int          `json:"lastRacePoints" yaml:"lastRacePoints"`
	LastRaceDate   time.Time    `json:"lastRaceDate,omitzero" yaml:"lastRaceDate,omitempty"`
}
