package model

// LeagueRankMode controls how disqualified and declassified riders are
// treated when league rank points are assigned.
type LeagueRankMode string

const (
	// DQ and declassified riders are removed from the rank sequence before
	// league rank points are assigned.
	LeagueRankAfterRemoval LeagueRankMode = "after-removal"
	// DQ and declassified riders keep their position in the rank sequence.
	LeagueRankBeforeRemoval LeagueRankMode = "before-removal"
)

const DefaultBestRacesCount = 5

type LeagueSettings struct {
	FinishPoints     []int          `json:"finishPoints" yaml:"finishPoints"`
	SprintPoints     []int          `json:"sprintPoints" yaml:"sprintPoints"`
	LeagueRankPoints []int          `json:"leagueRankPoints,omitempty" yaml:"leagueRankPoints,omitempty"`
	BestRacesCount   int            `json:"bestRacesCount" yaml:"bestRacesCount"`
	LeagueRankMode   LeagueRankMode `json:"leagueRankMode,omitempty" yaml:"leagueRankMode,omitempty"`
}

func (s LeagueSettings) EffectiveBestRacesCount() int {
	if s.BestRacesCount <= 0 {
		return DefaultBestRacesCount
	}
	return s.BestRacesCount
}

func (s LeagueSettings) EffectiveLeagueRankMode() LeagueRankMode {
	if s.LeagueRankMode == "" {
		return LeagueRankAfterRemoval
	}
	return s.LeagueRankMode
}

func (s LeagueSettings) HasLeagueRankPoints() bool {
	return len(s.LeagueRankPoints) > 0
}

// PointsAt returns the value of a points table at a 0-based index or 0 if
// the table is too short.
func PointsAt(table []int, idx int) int {
	if idx < 0 || idx >= len(table) {
		return 0
	}
	return table[idx]
}
