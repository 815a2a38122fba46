package common

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

type MarketModel struct {
	Spot           float64 `json:"spot" yaml:"spot"`
	DomesticRate   float64 `json:"domestic_rate" yaml:"domestic_rate"`
	ForeignRate    float64 `json:"foreign_rate" yaml:"foreign_rate"`
	Volatility     float64 `json:"volatility" yaml:"volatility"`
	TimeToMaturity float64 `json:"time_to_maturity" yaml:"time_to_maturity"`
}

func (m MarketModel) Validate() error {
	switch {
	case !isFinite(m.Spot) || m.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidMarket, m.Spot)
	case !isFinite(m.Volatility) || m.Volatility < 0:
		return fmt.Errorf("%w: volatility must not be negative, got %v", ErrInvalidMarket, m.Volatility)
	case !isFinite(m.TimeToMaturity) || m.TimeToMaturity <= 0:
		return fmt.Errorf("%w: time to maturity must be positive, got %v", ErrInvalidMarket, m.TimeToMaturity)
	case !isFinite(m.DomesticRate) || !isFinite(m.ForeignRate):
		return fmt.Errorf("%w: rates must be finite", ErrInvalidMarket)
	}
	return nil
}

// WithSpot returns a copy of the model re-anchored at spot.
func (m MarketModel) WithSpot(spot float64) MarketModel {
	m.Spot = spot
	return m
}

func (m MarketModel) Fields() []zap.Field {
	return []zap.Field{
		zap.Float64("spot", m.Spot),
		zap.Float64("domestic_rate", m.DomesticRate),
		zap.Float64("foreign_rate", m.ForeignRate),
		zap.Float64("volatility", m.Volatility),
		zap.Float64("time_to_maturity", m.TimeToMaturity),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
