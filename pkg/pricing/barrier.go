package pricing

import (
	"fmt"
	"math"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

// BarrierClosedForm prices a single-barrier knock-in or knock-out option with the
// Reiner-Rubinstein reflection formulas. A barrier below spot is a down barrier,
// above spot an up barrier. A barrier sitting on spot counts as already touched.
func BarrierClosedForm(optionType common.InstrumentType, spot, strike, domesticRate, foreignRate, t, sigma, barrier float64) (float64, error) {
	if !optionType.IsBarrier() {
		return 0, fmt.Errorf("%w: %q is not a barrier option", ErrUnsupportedInstrument, optionType)
	}
	if err := validateClosedForm(spot, strike, t, sigma); err != nil {
		return 0, err
	}
	if !(barrier > 0) || math.IsInf(barrier, 0) {
		return 0, fmt.Errorf("%w: barrier must be positive, got %v", ErrInvalidParameter, barrier)
	}

	vanillaType := common.InstrumentPut
	if optionType.IsCallLike() {
		vanillaType = common.InstrumentCall
	}
	vanilla, err := VanillaClosedForm(vanillaType, spot, strike, domesticRate, foreignRate, t, sigma)
	if err != nil {
		return 0, err
	}

	if barrier == spot {
		if optionType.IsKnockIn() {
			return vanilla, nil
		}
		return 0, nil
	}

	in, out, err := reinerRubinstein(optionType.IsCallLike(), barrier < spot, spot, strike, domesticRate, foreignRate, t, sigma, barrier)
	if err != nil {
		return 0, err
	}

	if optionType.IsKnockIn() {
		return in, nil
	}
	return out, nil
}

func reinerRubinstein(call, down bool, spot, strike, domesticRate, foreignRate, t, sigma, barrier float64) (float64, float64, error) {
	phi, eta := 1.0, 1.0
	if !call {
		phi = -1
	}
	if !down {
		eta = -1
	}

	sigT := sigma * math.Sqrt(t)
	if !(sigT >= minSigmaSqrtT) {
		return 0, 0, fmt.Errorf("%w: sigma*sqrt(t) = %v", ErrNumericalInstability, sigT)
	}

	b := domesticRate - foreignRate
	mu := (b - 0.5*sigma*sigma) / (sigma * sigma)
	shift := (1 + mu) * sigT

	x1 := math.Log(spot/strike)/sigT + shift
	x2 := math.Log(spot/barrier)/sigT + shift
	y1 := math.Log(barrier*barrier/(spot*strike))/sigT + shift
	y2 := math.Log(barrier/spot)/sigT + shift

	carry := spot * math.Exp(-foreignRate*t)
	disc := strike * math.Exp(-domesticRate*t)
	hs := barrier / spot
	hsCarry := math.Pow(hs, 2*(mu+1))
	hsDisc := math.Pow(hs, 2*mu)

	A := phi*carry*normCDF(phi*x1) - phi*disc*normCDF(phi*x1-phi*sigT)
	B := phi*carry*normCDF(phi*x2) - phi*disc*normCDF(phi*x2-phi*sigT)
	C := phi*carry*hsCarry*normCDF(eta*y1) - phi*disc*hsDisc*normCDF(eta*y1-eta*sigT)
	D := phi*carry*hsCarry*normCDF(eta*y2) - phi*disc*hsDisc*normCDF(eta*y2-eta*sigT)

	for _, v := range []float64{A, B, C, D} {
		if !isFinite(v) {
			return 0, 0, fmt.Errorf("%w: reflection terms A=%v B=%v C=%v D=%v", ErrNumericalInstability, A, B, C, D)
		}
	}

	aboveBarrier := strike >= barrier

	var in, out float64
	switch {
	case call && down && aboveBarrier:
		in, out = C, A-C
	case call && down:
		in, out = A-B+D, B-D
	case !call && down && aboveBarrier:
		in, out = B-C+D, A-B+C-D
	case !call && down:
		in, out = A, 0
	case call && aboveBarrier:
		in, out = A, 0
	case call:
		in, out = B-C+D, A-B+C-D
	case aboveBarrier:
		in, out = A-B+D, B-D
	default:
		in, out = C, A-C
	}

	return math.Max(in, 0), math.Max(out, 0), nil
}
