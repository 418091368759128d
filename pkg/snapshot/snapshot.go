// Package snapshot reads and writes the league data file.
//
// The file contains the settings, routes, races, raw results and the
// adjudication of a league. YAML is the default format, files ending with
// .json are read and written as JSON.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing"
	"github.com/mpapenbr/league-results/pkg/processing/adjudication"
)

type League struct {
	Settings model.LeagueSettings `json:"settings" yaml:"settings"`
	Routes   []model.Route        `json:"routes,omitempty" yaml:"routes,omitempty"`
	Races    []model.Race         `json:"races" yaml:"races"`
	// raceID -> category -> riders
	Results      map[string]map[string][]model.RawRiderResult `json:"results" yaml:"results"`
	Adjudication map[string]model.AdjudicationFlags            `json:"adjudication,omitempty" yaml:"adjudication,omitempty"`
}

func Load(path string) (*League, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isJSON(path) {
		return DecodeJSON(data)
	}
	return Decode(data)
}

// Decode parses a YAML league document.
func Decode(data []byte) (*League, error) {
	ret := &League{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("decode league: %w", err)
	}
	return ret.normalize(), nil
}

func DecodeJSON(data []byte) (*League, error) {
	ret := &League{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("decode league: %w", err)
	}
	return ret.normalize(), nil
}

func (l *League) normalize() *League {
	if l.Results == nil {
		l.Results = map[string]map[string][]model.RawRiderResult{}
	}
	if l.Adjudication == nil {
		l.Adjudication = map[string]model.AdjudicationFlags{}
	}
	return l
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Save writes the league to path. The file is replaced atomically.
func Save(path string, league *League) error {
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(league, "", "  ")
	} else {
		data, err = yaml.Marshal(league)
	}
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (l *League) Race(raceID string) (model.Race, bool) {
	return lo.Find(l.Races, func(r model.Race) bool { return r.ID == raceID })
}

func (l *League) Route(routeID string) (model.Route, bool) {
	return lo.Find(l.Routes, func(r model.Route) bool { return r.ID == routeID })
}

func (l *League) RaceResults(raceID string) model.RaceResults {
	return model.RaceResults{RaceID: raceID, Categories: l.Results[raceID]}
}

func (l *League) AllResults() map[string]model.RaceResults {
	ret := make(map[string]model.RaceResults, len(l.Results))
	for raceID := range l.Results {
		ret[raceID] = l.RaceResults(raceID)
	}
	return ret
}

// Categories returns the sorted names of all categories with results
func (l *League) Categories() []string {
	set := map[string]struct{}{}
	for _, cats := range l.Results {
		for c := range cats {
			set[c] = struct{}{}
		}
	}
	ret := lo.Keys(set)
	slices.Sort(ret)
	return ret
}

func (l *League) SetResults(raceID, category string, riders []model.RawRiderResult) {
	if l.Results == nil {
		l.Results = map[string]map[string][]model.RawRiderResult{}
	}
	if l.Results[raceID] == nil {
		l.Results[raceID] = map[string][]model.RawRiderResult{}
	}
	l.Results[raceID][category] = riders
}

// AdjudicationState builds the adjudication state with the riders of the
// results as rosters.
func (l *League) AdjudicationState(opts ...adjudication.Option) (*adjudication.State, error) {
	ret := adjudication.NewState(opts...)
	raceIDs := lo.Uniq(append(lo.Keys(l.Results), lo.Keys(l.Adjudication)...))
	slices.Sort(raceIDs)
	for _, raceID := range raceIDs {
		ret.SetRoster(raceID, processing.Roster(l.RaceResults(raceID)))
		if flags, ok := l.Adjudication[raceID]; ok {
			if err := ret.Load(raceID, flags); err != nil {
				return nil, err
			}
		}
	}
	return ret, nil
}

// ApplyAdjudication stores the flags of state. Races without any flag are
// removed from the file.
func (l *League) ApplyAdjudication(state *adjudication.State) {
	if l.Adjudication == nil {
		l.Adjudication = map[string]model.AdjudicationFlags{}
	}
	for _, raceID := range state.Races() {
		flags := state.Flags(raceID)
		if len(flags.ManualDQs)+len(flags.ManualDeclassifications)+len(flags.ManualExclusions) == 0 {
			delete(l.Adjudication, raceID)
			continue
		}
		l.Adjudication[raceID] = flags
	}
}

// NewProcessor returns a processor for the settings and adjudication of the
// league.
func (l *League) NewProcessor(opts ...processing.ProcessorOption) (*processing.Processor, error) {
	state, err := l.AdjudicationState()
	if err != nil {
		return nil, err
	}
	return processing.NewProcessor(append([]processing.ProcessorOption{
		processing.WithSettings(l.Settings),
		processing.WithAdjudication(state),
	}, opts...)...), nil
}
