package common

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

const DefaultRebate = 5.0

// Leg is one hedge component. Quantity is signed: positive is bought, negative
// is sold, and Quantity/100 is the hedged fraction of notional.
type Leg struct {
	Type          InstrumentType `json:"type" yaml:"type"`
	Strike        Level          `json:"strike" yaml:"strike"`
	Barrier       *Level         `json:"barrier,omitempty" yaml:"barrier,omitempty"`
	SecondBarrier *Level         `json:"second_barrier,omitempty" yaml:"second_barrier,omitempty"`
	Rebate        *float64       `json:"rebate,omitempty" yaml:"rebate,omitempty"`
	Volatility    float64        `json:"volatility" yaml:"volatility"`
	Quantity      float64        `json:"quantity" yaml:"quantity"`
	TimeToPayoff  *float64       `json:"time_to_payoff,omitempty" yaml:"time_to_payoff,omitempty"`
}

type Strategy []Leg

// Resolved holds a leg's levels after resolution against a spot.
type Resolved struct {
	Strike        float64
	Barrier       float64
	SecondBarrier float64
	HasBarrier    bool
	HasSecond     bool
}

// Lower and Upper order the two barriers of a double-barrier leg.
func (r Resolved) Lower() float64 { return math.Min(r.Barrier, r.SecondBarrier) }
func (r Resolved) Upper() float64 { return math.Max(r.Barrier, r.SecondBarrier) }

func (l Leg) IsLong() bool { return l.Quantity > 0 }

// Ratio is |quantity|/100, the hedged fraction of notional.
func (l Leg) Ratio() float64 { return math.Abs(l.Quantity) / 100 }

func (l Leg) RebatePercent() float64 {
	if l.Rebate == nil {
		return DefaultRebate
	}
	return *l.Rebate
}

// Maturity is the leg's own time to payoff, or fallback when it has none.
// Resolve rejects non-positive overrides.
func (l Leg) Maturity(fallback float64) float64 {
	if l.TimeToPayoff != nil {
		return *l.TimeToPayoff
	}
	return fallback
}

func (l Leg) Sigma(fallback float64) float64 {
	if l.Volatility > 0 {
		return l.Volatility
	}
	return fallback
}

// Resolve validates the leg's shape and resolves its levels against spot.
func (l Leg) Resolve(spot float64) (Resolved, error) {
	var r Resolved

	if l.Quantity == 0 || math.IsNaN(l.Quantity) {
		return r, ErrZeroQuantity
	}
	if _, err := ParseInstrumentType(string(l.Type)); err != nil {
		return r, err
	}
	if l.TimeToPayoff != nil && (!isFinite(*l.TimeToPayoff) || *l.TimeToPayoff <= 0) {
		return r, fmt.Errorf("%w: must be positive, got %v", ErrInvalidMaturity, *l.TimeToPayoff)
	}

	var err error
	if l.Type.RequiresStrike() {
		if r.Strike, err = l.Strike.Resolve(spot); err != nil {
			return r, fmt.Errorf("strike: %w", err)
		}
	}

	if l.Barrier != nil {
		if r.Barrier, err = l.Barrier.Resolve(spot); err != nil {
			return r, fmt.Errorf("barrier: %w", err)
		}
		r.HasBarrier = true
	} else if l.Type.RequiresBarrier() {
		return r, fmt.Errorf("%w: %s needs a barrier", ErrMissingLevel, l.Type)
	}

	if l.SecondBarrier != nil {
		if r.SecondBarrier, err = l.SecondBarrier.Resolve(spot); err != nil {
			return r, fmt.Errorf("second barrier: %w", err)
		}
		r.HasSecond = true
	} else if l.Type.RequiresSecondBarrier() {
		return r, fmt.Errorf("%w: %s needs a second barrier", ErrMissingLevel, l.Type)
	}

	if (l.Type == InstrumentRangeBinary || l.Type == InstrumentOutsideBinary) && r.Barrier <= r.Strike {
		return r, fmt.Errorf("%w: %s upper bound %v must exceed lower bound %v", ErrInvalidLevel, l.Type, r.Barrier, r.Strike)
	}

	return r, nil
}

func (l Leg) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("type", string(l.Type)),
		zap.Stringer("strike", l.Strike),
		zap.Float64("quantity", l.Quantity),
		zap.Float64("volatility", l.Volatility),
	}
	if l.Barrier != nil {
		fields = append(fields, zap.Stringer("barrier", *l.Barrier))
	}
	if l.SecondBarrier != nil {
		fields = append(fields, zap.Stringer("second_barrier", *l.SecondBarrier))
	}
	return fields
}
