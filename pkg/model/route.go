package model

// Route is a fixed course. Values are taken from the route catalog and never
// change for a given route id.
type Route struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Distance        float64 `json:"distance" yaml:"distance"`   // km per lap
	Elevation       float64 `json:"elevation" yaml:"elevation"` // m per lap
	LeadInDistance  float64 `json:"leadInDistance" yaml:"leadInDistance"`
	LeadInElevation float64 `json:"leadInElevation" yaml:"leadInElevation"`
}

func (r Route) TotalDistance(laps int) float64 {
	return r.LeadInDistance + float64(max(laps, 0))*r.Distance
}

func (r Route) TotalElevation(laps int) float64 {
	return r.LeadInElevation + float64(max(laps, 0))*r.Elevation
}
