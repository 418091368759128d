//nolint:funlen // ok for tests
package adjudication

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/league-results/pkg/model"
)

func newState(opts ...Option) *State {
	s := NewState(opts...)
	s.SetRoster("r1", []string{"1", "2", "3"})
	return s
}

func countFlags(f model.AdjudicationFlags, rider string) int {
	ret := 0
	for _, set := range [][]string{f.ManualDQs, f.ManualDeclassifications, f.ManualExclusions} {
		for _, id := range set {
			if id == rider {
				ret++
			}
		}
	}
	return ret
}

func TestState_MutualExclusion(t *testing.T) {
	s := newState()
	_, err := s.Disqualify("r1", "1")
	assert.NoError(t, err)
	tr, err := s.Declassify("r1", "1")
	assert.NoError(t, err)
	assert.Equal(t, Transition{RaceID: "r1", RiderID: "1", From: model.StatusDisqualified, To: model.StatusDeclassified}, tr)

	f := s.Flags("r1")
	assert.Equal(t, 1, countFlags(f, "1"))
	assert.Equal(t, []string{"1"}, f.ManualDeclassifications)
	assert.Empty(t, f.ManualDQs)

	_, err = s.Exclude("r1", "1")
	assert.NoError(t, err)
	f = s.Flags("r1")
	assert.Equal(t, 1, countFlags(f, "1"))
	assert.Equal(t, model.StatusExcluded, s.Status("r1", "1"))
}

func TestState_Clear(t *testing.T) {
	s := newState()
	_, _ = s.Exclude("r1", "2")

	// clearing a flag the rider does not have is a no-op
	tr, err := s.ClearDisqualification("r1", "2")
	assert.NoError(t, err)
	assert.False(t, tr.Changed())
	assert.Equal(t, model.StatusExcluded, s.Status("r1", "2"))

	tr, err = s.ClearExclusion("r1", "2")
	assert.NoError(t, err)
	assert.True(t, tr.Changed())
	assert.Equal(t, model.StatusClean, s.Status("r1", "2"))
	assert.Empty(t, s.Flags("r1").ManualExclusions)
}

func TestState_Errors(t *testing.T) {
	s := newState()
	tests := []struct {
		name    string
		raceID  string
		riderID string
		wantErr error
	}{
		{name: "unknown rider", raceID: "r1", riderID: "99", wantErr: ErrUnknownRider},
		{name: "unknown race", raceID: "r2", riderID: "1", wantErr: ErrUnknownRace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Disqualify(tt.raceID, tt.riderID)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, model.StatusClean, s.Status(tt.raceID, tt.riderID))
		})
	}
}

func TestState_Load(t *testing.T) {
	s := newState()
	err := s.Load("r1", model.AdjudicationFlags{
		ManualDQs:        []string{"1"},
		ManualExclusions: []string{"3"},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDisqualified, s.Status("r1", "1"))
	assert.Equal(t, model.StatusClean, s.Status("r1", "2"))
	assert.Equal(t, model.StatusExcluded, s.Status("r1", "3"))

	err = s.Load("r1", model.AdjudicationFlags{
		ManualDQs:               []string{"2"},
		ManualDeclassifications: []string{"2"},
	})
	assert.True(t, errors.Is(err, ErrInconsistentFlags))
	// previous state is kept
	assert.Equal(t, model.StatusDisqualified, s.Status("r1", "1"))
	assert.Equal(t, model.StatusClean, s.Status("r1", "2"))
}

func TestState_TransitionHook(t *testing.T) {
	var got []Transition
	s := newState(WithTransitionHook(func(tr Transition) { got = append(got, tr) }))
	_, _ = s.Disqualify("r1", "1")
	_, _ = s.Disqualify("r1", "1") // no change, no hook call
	_, _ = s.ClearDisqualification("r1", "1")
	assert.Equal(t, []Transition{
		{RaceID: "r1", RiderID: "1", From: model.StatusClean, To: model.StatusDisqualified},
		{RaceID: "r1", RiderID: "1", From: model.StatusDisqualified, To: model.StatusClean},
	}, got)
}

func TestState_FlagsSortedAndRaces(t *testing.T) {
	s := newState()
	s.SetRoster("r0", []string{"x"})
	_, _ = s.Disqualify("r1", "3")
	_, _ = s.Disqualify("r1", "1")
	assert.Equal(t, []string{"1", "3"}, s.Flags("r1").ManualDQs)
	assert.Equal(t, []string{"r0", "r1"}, s.Races())
	assert.Equal(t, model.AdjudicationFlags{
		ManualDQs: []string{}, ManualDeclassifications: []string{}, ManualExclusions: []string{},
	}, s.Flags("unknown"))
}
