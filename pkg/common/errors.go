package common

import "errors"

var (
	ErrInvalidMarket     = errors.New("invalid market model")
	ErrInvalidLevel      = errors.New("invalid level")
	ErrZeroQuantity      = errors.New("leg quantity is zero")
	ErrMissingLevel      = errors.New("required level is missing")
	ErrUnknownInstrument = errors.New("unknown instrument type")
	ErrInvalidMaturity   = errors.New("invalid time to payoff")
)
