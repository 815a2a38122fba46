package pricing

import "errors"

var (
	ErrInvalidParameter         = errors.New("invalid parameter")
	ErrUnsupportedInstrument    = errors.New("unsupported instrument")
	ErrNumericalInstability     = errors.New("numerical instability")
	ErrSimulationNonConvergence = errors.New("simulation did not converge")
)
