package scoring

import (
	"github.com/mpapenbr/league-results/pkg/model"
	"github.com/mpapenbr/league-results/pkg/processing/timecodec"
)

// Delta is the leader-relative value of one rider.
// For the leader Value is the absolute value, otherwise the gap.
type Delta struct {
	Kind  model.CellKind
	Value int64
}

// Deltas computes leader based values for a list of times.
// The minimum positive value is the leader (CellLeader), every other
// positive value becomes a non-negative gap (CellDelta). Values <= 0 mean
// "no data" (CellEmpty).
// This is used for split segments and for finish times alike.
func Deltas(values []int64) []Delta {
	return LeaderDeltas(values, nil)
}

// LeaderDeltas is Deltas with the leader chosen only among the values for
// which eligible reports true (nil means all). Positive values that are not
// eligible are reported as absolute values (CellArrival).
func LeaderDeltas(values []int64, eligible func(i int) bool) []Delta {
	ok := func(i int) bool { return eligible == nil || eligible(i) }
	leader := int64(0)
	for i, v := range values {
		if v > 0 && ok(i) && (leader == 0 || v < leader) {
			leader = v
		}
	}
	ret := make([]Delta, len(values))
	for i, v := range values {
		switch {
		case v <= 0:
			ret[i] = Delta{Kind: model.CellEmpty}
		case !ok(i):
			ret[i] = Delta{Kind: model.CellArrival, Value: v}
		case v == leader:
			ret[i] = Delta{Kind: model.CellLeader, Value: v}
		default:
			ret[i] = Delta{Kind: model.CellDelta, Value: v - leader}
		}
	}
	return ret
}

// toCell renders a delta, absFmt is used for the leader
func (d Delta) toCell(absFmt func(int64) string) model.Cell {
	switch d.Kind {
	case model.CellLeader, model.CellArrival:
		return model.Cell{Kind: d.Kind, Millis: d.Value, Display: absFmt(d.Value)}
	case model.CellDelta:
		return model.Cell{Kind: d.Kind, Millis: d.Value, Display: timecodec.FormatDelta(d.Value)}
	default:
		return emptyCell()
	}
}

func emptyCell() model.Cell {
	return model.Cell{Kind: model.CellEmpty, Display: "-"}
}
