package model

// Status is the adjudication status of a rider within a race.
type Status string

const (
	StatusClean        Status = "clean"
	StatusDisqualified Status = "disqualified"
	StatusDeclassified Status = "declassified"
	StatusExcluded     Status = "excluded"
)

// AdjudicationFlags is the stored form of the adjudication of a race.
// The three sets are pairwise disjoint.
//
//nolint:tagliatelle // stored names
type AdjudicationFlags struct {
	ManualDQs               []string `json:"manualDQs" yaml:"manualDQs"`
	ManualDeclassifications []string `json:"manualDeclassifications" yaml:"manualDeclassifications"`
	ManualExclusions        []string `json:"manualExclusions" yaml:"manualExclusions"`
}

func (s Status) String() string {
	if s == "" {
		return string(StatusClean)
	}
	return string(s)
}

// Normalize maps the empty status to StatusClean
func (s Status) Normalize() Status {
	if s == "" {
		return StatusClean
	}
	return s
}
