// Package zwift maps the payloads of the Zwift results and segment APIs to
// raw rider results.
package zwift

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/model"
)

var ErrMalformedPayload = errors.New("malformed payload")

var (
	pathEntries      = jp.MustParseString("$.entries")
	pathProfileID    = jp.MustParseString("$.profileData.id")
	pathProfileIDAlt = jp.MustParseString("$.profileId")
	pathFirstName    = jp.MustParseString("$.profileData.firstName")
	pathLastName     = jp.MustParseString("$.profileData.lastName")
	pathDuration     = jp.MustParseString("$.activityData.durationInMilliseconds")
	pathResults      = jp.MustParseString("$.results")
	pathAthlete      = jp.MustParseString("$.athleteId")
	pathWorldTime    = jp.MustParseString("$.worldTime")
	pathElapsed      = jp.MustParseString("$.elapsed")
)

type (
	Option   func(*Importer)
	Importer struct {
		registered map[string]string // zwiftId -> name
		l          *log.Logger
	}
	effort struct {
		worldTime int64
		elapsed   int64
	}
)

// WithRegisteredRiders restricts the import to the riders of the league.
// The names of the map override the names delivered by the payload.
func WithRegisteredRiders(riders map[string]string) Option {
	return func(i *Importer) {
		i.registered = riders
	}
}

func WithLogger(l *log.Logger) Option {
	return func(i *Importer) {
		i.l = l
	}
}

func NewImporter(opts ...Option) *Importer {
	ret := &Importer{l: log.Default().Named("importer.zwift")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Import combines the finishers payload and the segment payloads (keyed by
// segment id) into the raw results of one category.
//
//nolint:whitespace // readability
func (i *Importer) Import(
	finishers []byte,
	segmentPayloads map[string][]byte,
	segments []model.Segment,
) ([]model.RawRiderResult, error) {
	riders, err := i.Finishers(finishers)
	if err != nil {
		return nil, err
	}
	ids := lo.Keys(segmentPayloads)
	slices.Sort(ids)
	for _, id := range ids {
		if riders, err = i.MapSegmentEfforts(riders, id, segmentPayloads[id], segments); err != nil {
			return nil, fmt.Errorf("segment %s: %w", id, err)
		}
	}
	return riders, nil
}

// Finishers maps the event results payload. The payload is either a list of
// entries or an object with an "entries" list.
// The result is sorted by finish time, FinishRank reflects that order.
func (i *Importer) Finishers(payload []byte) ([]model.RawRiderResult, error) {
	entries, err := list(payload, pathEntries)
	if err != nil {
		return nil, err
	}
	ret := make([]model.RawRiderResult, 0, len(entries))
	for _, e := range entries {
		id, ok := toID(pathProfileID.First(e))
		if !ok {
			id, ok = toID(pathProfileIDAlt.First(e))
		}
		if !ok {
			i.l.Warn("skipping entry without profile id")
			continue
		}
		name, ok := i.name(id, e)
		if !ok {
			continue
		}
		duration, _ := toInt64(pathDuration.First(e))
		ret = append(ret, model.RawRiderResult{ZwiftID: id, Name: name, FinishTime: max(duration, 0)})
	}
	slices.SortStableFunc(ret, func(a, b model.RawRiderResult) int {
		return cmp.Or(
			cmp.Compare(finishKey(a.FinishTime), finishKey(b.FinishTime)),
			cmp.Compare(a.ZwiftID, b.ZwiftID))
	})
	for idx := range ret {
		if ret[idx].FinishTime > 0 {
			ret[idx].FinishRank = idx + 1
		}
	}
	i.l.Debug("mapped finishers", log.Int("entries", len(entries)), log.Int("riders", len(ret)))
	return ret, nil
}

// MapSegmentEfforts assigns the efforts of one segment to the riders.
// Efforts of an athlete are ordered by world time, the n-th effort belongs
// to the configured segment with that id and Count n. Efforts without a
// configured segment and efforts of riders not in the category are ignored.
// Registered riders without a finish get a row once they have an effort.
//
//nolint:whitespace // readability
func (i *Importer) MapSegmentEfforts(
	riders []model.RawRiderResult,
	segmentID string,
	payload []byte,
	segments []model.Segment,
) ([]model.RawRiderResult, error) {
	results, err := list(payload, pathResults)
	if err != nil {
		return nil, err
	}
	byAthlete := map[string][]effort{}
	for _, r := range results {
		id, ok := toID(pathAthlete.First(r))
		if !ok {
			continue
		}
		wt, ok := toInt64(pathWorldTime.First(r))
		if !ok || wt <= 0 {
			continue
		}
		elapsed, _ := toInt64(pathElapsed.First(r))
		byAthlete[id] = append(byAthlete[id], effort{worldTime: wt, elapsed: elapsed})
	}

	keyByCount := map[int]string{}
	for _, s := range segments {
		if s.ID == segmentID {
			keyByCount[s.Count] = s.PrimaryKey()
		}
	}

	ret := lo.Map(riders, func(r model.RawRiderResult, _ int) model.RawRiderResult { return r.Clone() })
	index := map[string]int{}
	for idx := range ret {
		index[ret[idx].ZwiftID] = idx
	}
	athletes := lo.Keys(byAthlete)
	slices.Sort(athletes)
	for _, id := range athletes {
		idx, ok := index[id]
		if !ok {
			name, registered := i.registered[id]
			if !registered {
				continue
			}
			ret = append(ret, model.RawRiderResult{ZwiftID: id, Name: name})
			idx = len(ret) - 1
			index[id] = idx
		}
		efforts := byAthlete[id]
		slices.SortStableFunc(efforts, func(a, b effort) int { return cmp.Compare(a.worldTime, b.worldTime) })
		for n, e := range efforts {
			key, ok := keyByCount[n+1]
			if !ok {
				continue
			}
			if ret[idx].Segments == nil {
				ret[idx].Segments = map[string]model.SegmentValue{}
			}
			ret[idx].Segments[key] = model.SegmentValue{WorldTime: e.worldTime, ElapsedTime: e.elapsed}
		}
	}
	i.l.Debug("mapped segment efforts",
		log.String("segment", segmentID),
		log.Int("efforts", len(results)),
		log.Int("athletes", len(athletes)))
	return ret, nil
}

func (i *Importer) name(id string, entry any) (string, bool) {
	if i.registered != nil {
		name, ok := i.registered[id]
		if !ok {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	first, _ := pathFirstName.First(entry).(string)
	last, _ := pathLastName.First(entry).(string)
	return strings.TrimSpace(first + " " + last), true
}

// list parses payload and returns the top level list or the list found at
// path if the top level is an object.
func list(payload []byte, path jp.Expr) ([]any, error) {
	data, err := oj.Parse(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if l, ok := data.([]any); ok {
		return l, nil
	}
	if l, ok := path.First(data).([]any); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: no list found at %s", ErrMalformedPayload, path)
}

func finishKey(ms int64) int64 {
	if ms <= 0 {
		return math.MaxInt64
	}
	return ms
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(math.Round(x)), true
	case string:
		ret, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return ret, err == nil
	}
	return 0, false
}

func toID(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case nil:
		return "", false
	}
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}
