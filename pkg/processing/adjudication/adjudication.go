// Package adjudication keeps the manual flags (disqualified, declassified,
// excluded) of riders per race.
//
// A rider has exactly one status per race. The stored representation uses
// three sets, see model.AdjudicationFlags.
package adjudication

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/model"
)

var (
	ErrUnknownRace       = errors.New("race has no results")
	ErrUnknownRider      = errors.New("rider not present in race results")
	ErrInconsistentFlags = errors.New("rider flagged more than once")
)

type (
	// Transition describes a status change of a rider.
	// From != To means the cached total of the rider is no longer valid.
	Transition struct {
		RaceID  string
		RiderID string
		From    model.Status
		To      model.Status
	}
	TransitionHook func(Transition)
	Option         func(*State)

	raceState struct {
		roster map[string]struct{}
		status map[string]model.Status // only non-clean entries
	}
	State struct {
		mu    sync.Mutex
		races map[string]*raceState
		hooks []TransitionHook
		l     *log.Logger
	}
)

func WithTransitionHook(hook TransitionHook) Option {
	return func(s *State) {
		s.hooks = append(s.hooks, hook)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *State) {
		s.l = l
	}
}

func NewState(opts ...Option) *State {
	ret := &State{
		races: make(map[string]*raceState),
		l:     log.Default().Named("processing.adjudication"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (t Transition) Changed() bool {
	return t.From != t.To
}

// SetRoster registers the riders present in the results of a race.
// Flags of riders no longer present are kept, they become effective again
// once the rider shows up in a later refresh.
func (s *State) SetRoster(raceID string, riderIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.race(raceID)
	rs.roster = make(map[string]struct{}, len(riderIDs))
	for _, id := range riderIDs {
		rs.roster[id] = struct{}{}
	}
}

// Load replaces the flags of a race by the stored flags.
// Overlapping sets are rejected, the previous state is kept.
func (s *State) Load(raceID string, flags model.AdjudicationFlags) error {
	status := map[string]model.Status{}
	add := func(ids []string, st model.Status) error {
		for _, id := range ids {
			if prev, ok := status[id]; ok && prev != st {
				return fmt.Errorf("%w: race %s rider %s (%s, %s)",
					ErrInconsistentFlags, raceID, id, prev, st)
			}
			status[id] = st
		}
		return nil
	}
	if err := add(flags.ManualDQs, model.StatusDisqualified); err != nil {
		return err
	}
	if err := add(flags.ManualDeclassifications, model.StatusDeclassified); err != nil {
		return err
	}
	if err := add(flags.ManualExclusions, model.StatusExcluded); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.race(raceID).status = status
	return nil
}

// Status returns the status of a rider. Unknown riders are clean.
func (s *State) Status(raceID, riderID string) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rs, ok := s.races[raceID]; ok {
		if st, ok := rs.status[riderID]; ok {
			return st
		}
	}
	return model.StatusClean
}

// StatusFunc returns a lookup for the given race
func (s *State) StatusFunc(raceID string) func(riderID string) model.Status {
	return func(riderID string) model.Status {
		return s.Status(raceID, riderID)
	}
}

// Flags returns the stored representation of a race. The sets are sorted.
func (s *State) Flags(raceID string) model.AdjudicationFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := model.AdjudicationFlags{
		ManualDQs:               []string{},
		ManualDeclassifications: []string{},
		ManualExclusions:        []string{},
	}
	rs, ok := s.races[raceID]
	if !ok {
		return ret
	}
	for _, id := range lo.Keys(rs.status) {
		switch rs.status[id] {
		case model.StatusDisqualified:
			ret.ManualDQs = append(ret.ManualDQs, id)
		case model.StatusDeclassified:
			ret.ManualDeclassifications = append(ret.ManualDeclassifications, id)
		case model.StatusExcluded:
			ret.ManualExclusions = append(ret.ManualExclusions, id)
		case model.StatusClean:
		}
	}
	slices.Sort(ret.ManualDQs)
	slices.Sort(ret.ManualDeclassifications)
	slices.Sort(ret.ManualExclusions)
	return ret
}

// Races returns the ids of all races with state, sorted
func (s *State) Races() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := lo.Keys(s.races)
	slices.Sort(ret)
	return ret
}

func (s *State) Disqualify(raceID, riderID string) (Transition, error) {
	return s.set(raceID, riderID, model.StatusDisqualified)
}

func (s *State) Declassify(raceID, riderID string) (Transition, error) {
	return s.set(raceID, riderID, model.StatusDeclassified)
}

func (s *State) Exclude(raceID, riderID string) (Transition, error) {
	return s.set(raceID, riderID, model.StatusExcluded)
}

func (s *State) ClearDisqualification(raceID, riderID string) (Transition, error) {
	return s.clear(raceID, riderID, model.StatusDisqualified)
}

func (s *State) ClearDeclassification(raceID, riderID string) (Transition, error) {
	return s.clear(raceID, riderID, model.StatusDeclassified)
}

func (s *State) ClearExclusion(raceID, riderID string) (Transition, error) {
	return s.clear(raceID, riderID, model.StatusExcluded)
}

func (s *State) set(raceID, riderID string, to model.Status) (Transition, error) {
	return s.apply(raceID, riderID, func(model.Status) model.Status { return to })
}

// clear only resets the status if the rider currently has the given one
func (s *State) clear(raceID, riderID string, which model.Status) (Transition, error) {
	return s.apply(raceID, riderID, func(cur model.Status) model.Status {
		if cur == which {
			return model.StatusClean
		}
		return cur
	})
}

//nolint:whitespace // readability
func (s *State) apply(
	raceID, riderID string,
	next func(cur model.Status) model.Status,
) (Transition, error) {
	s.mu.Lock()
	rs, ok := s.races[raceID]
	if !ok || rs.roster == nil {
		s.mu.Unlock()
		return Transition{}, fmt.Errorf("%w: %s", ErrUnknownRace, raceID)
	}
	if _, ok := rs.roster[riderID]; !ok {
		s.mu.Unlock()
		return Transition{}, fmt.Errorf("%w: race %s rider %s", ErrUnknownRider, raceID, riderID)
	}
	from := model.StatusClean
	if st, ok := rs.status[riderID]; ok {
		from = st
	}
	to := next(from)
	if to == model.StatusClean {
		delete(rs.status, riderID)
	} else {
		rs.status[riderID] = to
	}
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	t := Transition{RaceID: raceID, RiderID: riderID, From: from, To: to}
	if t.Changed() {
		s.l.Debug("status changed",
			log.String("race", raceID),
			log.String("rider", riderID),
			log.String("from", from.String()),
			log.String("to", to.String()))
		for _, hook := range hooks {
			hook(t)
		}
	}
	return t, nil
}

// must be called with lock held
func (s *State) race(raceID string) *raceState {
	rs, ok := s.races[raceID]
	if !ok {
		rs = &raceState{status: map[string]model.Status{}}
		s.races[raceID] = rs
	}
	return rs
}
