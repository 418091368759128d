package model

type CellKind string

const (
	CellEmpty   CellKind = "empty"   // no data
	CellPoints  CellKind = "points"  // sprint points
	CellLeader  CellKind = "leader"  // absolute time of the fastest rider
	CellDelta   CellKind = "delta"   // gap to the leader
	CellArrival CellKind = "arrival" // arrival time without points (DQ)
)

// Column is one scoring segment as displayed in the result table
type Column struct {
	Key        string      `json:"key" yaml:"key"`
	Label      string      `json:"label" yaml:"label"`
	Type       SegmentType `json:"type" yaml:"type"`
	Configured bool        `json:"configured" yaml:"configured"`
	Segment    *Segment    `json:"segment,omitempty" yaml:"segment,omitempty"`
}

// Cell is the computed value of one rider at one column.
// Millis carries the absolute time (CellLeader, CellArrival) or the gap
// (CellDelta).
type Cell struct {
	Kind    CellKind `json:"kind" yaml:"kind"`
	Points  int      `json:"points,omitempty" yaml:"points,omitempty"`
	Millis  int64    `json:"millis,omitempty" yaml:"millis,omitempty"`
	Display string   `json:"display" yaml:"display"`
}

type DisplayRow struct {
	Position      int    `json:"position" yaml:"position"`
	ZwiftID       string `json:"zwiftId" yaml:"zwiftId"`
	Name          string `json:"name" yaml:"name"`
	Status        Status `json:"status" yaml:"status"`
	FinishTime    int64  `json:"finishTime" yaml:"finishTime"`
	FinishRank    int    `json:"finishRank" yaml:"finishRank"`
	Finish        Cell   `json:"finish" yaml:"finish"`
	Cells         []Cell `json:"cells" yaml:"cells"`
	FinishPoints  int    `json:"finishPoints" yaml:"finishPoints"`
	SegmentPoints int    `json:"segmentPoints" yaml:"segmentPoints"`
	TotalPoints   int    `json:"totalPoints" yaml:"totalPoints"`
	LeaguePoints  *int   `json:"leaguePoints,omitempty" yaml:"leaguePoints,omitempty"`
	HasActivity   bool   `json:"hasActivity" yaml:"hasActivity"`
	Stale         bool   `json:"stale" yaml:"stale"`
}

type CategoryResult struct {
	RaceID   string       `json:"raceId" yaml:"raceId"`
	Category string       `json:"category" yaml:"category"`
	RaceType RaceType     `json:"raceType" yaml:"raceType"`
	Columns  []Column     `json:"columns" yaml:"columns"`
	Rows     []DisplayRow `json:"rows" yaml:"rows"`
}

// Row returns the row of a rider
func (c *CategoryResult) Row(zwiftID string) (DisplayRow, bool) {
	for i := range c.Rows {
		if c.Rows[i].ZwiftID == zwiftID {
			return c.Rows[i], true
		}
	}
	return DisplayRow{}, false
}
