package payoff

import "github.com/peter-kozarec/hedgefx/pkg/common"

// applyLeg returns the effective rate after leg at scenario spot s. Legs
// overwrite the running rate instead of adding to it; a leg whose condition
// does not hold at s leaves it unchanged. up is the side of a single barrier,
// fixed once per curve by barrierUp.
func applyLeg(leg common.Leg, lv common.Resolved, s float64, up bool, hedged float64) float64 {
	q := leg.Ratio()

	switch leg.Type {
	case common.InstrumentForward:
		return lv.Strike*q + s*(1-q)

	case common.InstrumentSwap:
		return lv.Strike

	case common.InstrumentCall, common.InstrumentPut:
		return applyVanilla(leg, lv.Strike, s, q, hedged)

	case common.InstrumentKnockoutCall, common.InstrumentKnockoutPut, common.InstrumentKnockinCall, common.InstrumentKnockinPut:
		if knocked(lv, s, up) == leg.Type.IsKnockIn() {
			return applyVanilla(leg, lv.Strike, s, q, hedged)
		}
		return hedged

	case common.InstrumentOneTouch, common.InstrumentNoTouch, common.InstrumentDoubleTouch, common.InstrumentDoubleNoTouch,
		common.InstrumentRangeBinary, common.InstrumentOutsideBinary:
		if !digitalHolds(leg.Type, lv, s, up) {
			return hedged
		}
		rebate := leg.RebatePercent() / 100
		if leg.IsLong() {
			return s * (1 - rebate*q)
		}
		return s * (1 + rebate*q)
	}

	return hedged
}

func applyVanilla(leg common.Leg, strike, s, q, hedged float64) float64 {
	var intrinsic float64
	switch {
	case leg.Type.IsCallLike() && s > strike:
		intrinsic = s - strike
	case !leg.Type.IsCallLike() && s < strike:
		intrinsic = strike - s
	default:
		return hedged
	}

	if leg.IsLong() {
		return s - intrinsic*q
	}
	return s + intrinsic*q
}

// barrierUp reports whether a leg's single barrier sits above the reference
// spot and is breached from below. A percent-of-spot barrier moves with the
// scenario spot, so its side comes from the percentage rather than from the
// resolved level.
func barrierUp(leg common.Leg, referenceSpot float64) bool {
	if leg.Barrier == nil {
		return false
	}
	if leg.Barrier.Kind == common.LevelPercentOfSpot {
		return leg.Barrier.Value >= 100
	}
	return leg.Barrier.Value >= referenceSpot
}

// knocked treats the scenario spot as the barrier observation. A second
// barrier turns the leg into a corridor breached outside either level.
func knocked(lv common.Resolved, s float64, up bool) bool {
	if lv.HasSecond {
		return outside(lv, s)
	}
	return breached(lv.Barrier, s, up)
}

func breached(level, s float64, up bool) bool {
	if up {
		return s >= level
	}
	return s <= level
}

func outside(lv common.Resolved, s float64) bool {
	return s <= lv.Lower() || s >= lv.Upper()
}

func digitalHolds(t common.InstrumentType, lv common.Resolved, s float64, up bool) bool {
	switch t {
	case common.InstrumentOneTouch:
		return breached(lv.Barrier, s, up)
	case common.InstrumentNoTouch:
		return !breached(lv.Barrier, s, up)
	case common.InstrumentDoubleTouch:
		return outside(lv, s)
	case common.InstrumentDoubleNoTouch:
		return !outside(lv, s)
	case common.InstrumentRangeBinary:
		return s >= lv.Strike && s <= lv.Barrier
	case common.InstrumentOutsideBinary:
		return s < lv.Strike || s > lv.Barrier
	}
	return false
}
