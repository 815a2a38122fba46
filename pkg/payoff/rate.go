package payoff

import (
	"sort"

	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/utility/fixed"
)

// RateAt interpolates the hedged rate at spot linearly between the two
// surrounding curve points. Outside the curve the nearest end point is used.
func RateAt(curve []common.CurvePoint, spot float64) (float64, bool) {
	if len(curve) == 0 {
		return 0, false
	}

	i := sort.Search(len(curve), func(i int) bool { return curve[i].Spot >= spot })
	switch {
	case i == 0:
		return curve[0].HedgedRate, true
	case i == len(curve):
		return curve[len(curve)-1].HedgedRate, true
	}

	lo, hi := curve[i-1], curve[i]
	if hi.Spot == lo.Spot {
		return hi.HedgedRate, true
	}
	w := (spot - lo.Spot) / (hi.Spot - lo.Spot)
	return lo.HedgedRate + w*(hi.HedgedRate-lo.HedgedRate), true
}

// Round returns a copy of curve with every rate rounded to digits decimals.
func Round(curve []common.CurvePoint, digits int) []common.CurvePoint {
	out := make([]common.CurvePoint, len(curve))
	for i, p := range curve {
		out[i] = common.CurvePoint{
			Spot:         fixed.Round(p.Spot, digits),
			UnhedgedRate: fixed.Round(p.UnhedgedRate, digits),
			HedgedRate:   fixed.Round(p.HedgedRate, digits),
		}
	}
	return out
}
