package pricing

import (
	"fmt"
	"math"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

// minSigmaSqrtT bounds sigma*sqrt(t) from below; under it d1 and d2 are not usable.
const minSigmaSqrtT = 1e-10

// VanillaClosedForm prices a European call or put with Garman-Kohlhagen.
func VanillaClosedForm(optionType common.InstrumentType, spot, strike, domesticRate, foreignRate, t, sigma float64) (float64, error) {
	if optionType != common.InstrumentCall && optionType != common.InstrumentPut {
		return 0, fmt.Errorf("%w: %q is not a vanilla option", ErrUnsupportedInstrument, optionType)
	}
	if err := validateClosedForm(spot, strike, t, sigma); err != nil {
		return 0, err
	}

	d1, d2, err := gkD1D2(spot, strike, domesticRate, foreignRate, t, sigma)
	if err != nil {
		return 0, err
	}

	carry := spot * math.Exp(-foreignRate*t)
	disc := strike * math.Exp(-domesticRate*t)

	call := carry*normCDF(d1) - disc*normCDF(d2)
	if optionType == common.InstrumentCall {
		return math.Max(call, 0), nil
	}

	// put-call parity
	return math.Max(call-carry+disc, 0), nil
}

func gkD1D2(spot, strike, domesticRate, foreignRate, t, sigma float64) (float64, float64, error) {
	sigT := sigma * math.Sqrt(t)
	if !(sigT >= minSigmaSqrtT) {
		return 0, 0, fmt.Errorf("%w: sigma*sqrt(t) = %v", ErrNumericalInstability, sigT)
	}

	d1 := (math.Log(spot/strike) + (domesticRate-foreignRate+0.5*sigma*sigma)*t) / sigT
	d2 := d1 - sigT
	if !isFinite(d1) || !isFinite(d2) {
		return 0, 0, fmt.Errorf("%w: d1=%v d2=%v", ErrNumericalInstability, d1, d2)
	}
	return d1, d2, nil
}

func validateClosedForm(spot, strike, t, sigma float64) error {
	switch {
	case !(spot > 0) || math.IsInf(spot, 0):
		return fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidParameter, spot)
	case !(strike > 0) || math.IsInf(strike, 0):
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidParameter, strike)
	case !(t > 0):
		return fmt.Errorf("%w: time to maturity must be positive, got %v", ErrInvalidParameter, t)
	case !(sigma > 0):
		return fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidParameter, sigma)
	}
	return nil
}
