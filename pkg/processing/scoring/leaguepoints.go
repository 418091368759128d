package scoring

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/league-results/pkg/model"
)

// assignLeaguePoints looks up the league contribution of each rider by its
// rank within the category.
// Riders without any activity get no league points (nil), disqualified
// riders get 0. Whether disqualified and declassified riders occupy a slot
// of the rank sequence depends on the configured LeagueRankMode.
func assignLeaguePoints(entries []*entry, in *Input, columns []model.Column) {
	table := in.Settings.LeagueRankPoints
	candidates := lo.Filter(entries, func(e *entry, _ int) bool { return e.hasActivity() })
	mode := in.Settings.EffectiveLeagueRankMode()
	slices.SortStableFunc(candidates, leagueOrder(in.Race, columns, mode))

	set := func(e *entry, points int) {
		p := points
		e.leaguePoints = &p
	}
	for _, e := range entries {
		e.leaguePoints = nil
		if e.status == model.StatusDisqualified {
			set(e, 0)
		}
	}

	switch mode {
	case model.LeagueRankBeforeRemoval:
		for i, e := range candidates {
			switch e.status {
			case model.StatusClean:
				set(e, model.PointsAt(table, i))
			case model.StatusDeclassified:
				set(e, model.PointsAt(table, len(candidates)-1))
			case model.StatusDisqualified, model.StatusExcluded:
			}
		}
	default:
		clean := lo.Filter(candidates, func(e *entry, _ int) bool {
			return e.status == model.StatusClean
		})
		for i, e := range clean {
			set(e, model.PointsAt(table, i))
		}
		for _, e := range candidates {
			if e.status == model.StatusDeclassified {
				set(e, model.PointsAt(table, len(clean)))
			}
		}
	}
}

// leagueOrder ranks by total points (desc) with the finish rank as tie
// breaker. In LeagueRankBeforeRemoval the sequence is built ignoring the
// adjudication, finishers by time first. Time trials always use their
// progress based order.
//
//nolint:whitespace // readability
func leagueOrder(
	race model.Race,
	columns []model.Column,
	mode model.LeagueRankMode,
) func(a, b *entry) int {
	if race.IsTimeTrial() {
		return compareTimeTrial(columns)
	}
	if mode == model.LeagueRankBeforeRemoval {
		return func(a, b *entry) int {
			if a.raw.Finished() != b.raw.Finished() {
				return boolKey(a.raw.Finished()) - boolKey(b.raw.Finished())
			}
			if a.raw.Finished() {
				return compareFinish(a, b)
			}
			return cmp.Or(
				cmp.Compare(b.total(), a.total()),
				cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID))
		}
	}
	return func(a, b *entry) int {
		return cmp.Or(
			cmp.Compare(b.total(), a.total()),
			cmp.Compare(rankKey(a.finishRank), rankKey(b.finishRank)),
			cmp.Compare(a.raw.ZwiftID, b.raw.ZwiftID))
	}
}
