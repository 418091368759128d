// Package segment matches configured scoring segments against the keys found
// in raw rider results.
package segment

import (
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/pkg/model"
)

type KeySet map[string]struct{}

// Keys collects the union of the raw segment keys of all riders
func Keys(riders []model.RawRiderResult) KeySet {
	ret := KeySet{}
	for i := range riders {
		for k := range riders[i].Segments {
			ret[k] = struct{}{}
		}
	}
	return ret
}

// Resolve returns the first candidate key of seg which is present in
// available. ok is false if there is no data for the segment (yet).
func Resolve(seg model.Segment, available KeySet) (key string, ok bool) {
	for _, k := range seg.CandidateKeys() {
		if _, found := available[k]; found {
			return k, true
		}
	}
	return "", false
}

// Columns derives the columns of a category.
// Every configured segment is resolved once against the keys of all riders,
// so every rider of the category uses the same key for a segment.
// Configured segments without data are kept (empty column), raw keys not
// claimed by any configured segment are appended in lexicographic order.
//
//nolint:whitespace // readability
func Columns(
	segments []model.Segment,
	defaultType model.SegmentType,
	riders []model.RawRiderResult,
) []model.Column {
	available := Keys(riders)
	claimed := KeySet{}
	ret := make([]model.Column, 0, len(segments)+len(available))
	for i := range segments {
		seg := segments[i]
		col := model.Column{
			Key:        seg.PrimaryKey(),
			Label:      seg.Label(),
			Type:       seg.EffectiveType(defaultType),
			Configured: true,
			Segment:    &seg,
		}
		remaining := lo.OmitByKeys(available, lo.Keys(claimed))
		if key, ok := Resolve(seg, remaining); ok {
			col.Key = key
			claimed[key] = struct{}{}
		}
		ret = append(ret, col)
	}
	extra := lo.Filter(lo.Keys(available), func(k string, _ int) bool {
		_, ok := claimed[k]
		return !ok
	})
	slices.Sort(extra)
	for _, k := range extra {
		ret = append(ret, model.Column{
			Key:   k,
			Label: k,
			Type:  effectiveDefault(defaultType),
		})
	}
	return ret
}

func effectiveDefault(t model.SegmentType) model.SegmentType {
	if t == "" {
		return model.SegmentTypeSprint
	}
	return t
}
