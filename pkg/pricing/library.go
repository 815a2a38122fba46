package pricing

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

type Method string

const (
	MethodNone       Method = "none"
	MethodClosedForm Method = "closed-form"
	MethodMonteCarlo Method = "monte-carlo"
)

// Quote is the valuation of one leg. FixedRate is set for forwards and swaps
// and holds the covered-interest-parity forward for the leg's maturity.
type Quote struct {
	Premium   float64 `json:"premium"`
	StdErr    float64 `json:"std_err,omitempty"`
	FixedRate float64 `json:"fixed_rate,omitempty"`
	Method    Method  `json:"method"`
}

// Library prices legs under a market model. It holds configuration only and is
// safe for concurrent use.
type Library struct {
	logger          *zap.Logger
	simulation      Simulation
	forceMonteCarlo bool
}

func NewLibrary(logger *zap.Logger, options ...LibraryOption) *Library {
	l := &Library{
		logger:     logger,
		simulation: DefaultSimulation(),
	}

	for _, option := range options {
		option(l)
	}

	return l
}

func (l *Library) PriceLeg(leg common.Leg, market common.MarketModel) (float64, error) {
	q, err := l.Quote(leg, market)
	if err != nil {
		return 0, err
	}
	return q.Premium, nil
}

// PriceStrategy returns one premium per leg, in leg order. Zero-quantity legs
// have no market effect and are given a zero premium.
func (l *Library) PriceStrategy(strategy common.Strategy, market common.MarketModel) ([]float64, error) {
	quotes, err := l.QuoteStrategy(strategy, market)
	if err != nil {
		return nil, err
	}

	premiums := make([]float64, len(quotes))
	for i, q := range quotes {
		premiums[i] = q.Premium
	}
	return premiums, nil
}

// QuoteStrategy is PriceStrategy keeping the valuation method and standard
// error of every leg.
func (l *Library) QuoteStrategy(strategy common.Strategy, market common.MarketModel) ([]Quote, error) {
	quotes := make([]Quote, len(strategy))
	for i, leg := range strategy {
		if leg.Quantity == 0 {
			l.logger.Warn("ignoring zero quantity leg", zap.Int("leg", i), zap.String("type", string(leg.Type)))
			quotes[i] = Quote{Method: MethodNone}
			continue
		}

		q, err := l.Quote(leg, market)
		if err != nil {
			return nil, fmt.Errorf("leg %d (%s): %w", i, leg.Type, err)
		}
		quotes[i] = q
	}
	return quotes, nil
}

// Quote dispatches a leg to its valuation method after resolving its levels
// against the market spot.
func (l *Library) Quote(leg common.Leg, market common.MarketModel) (Quote, error) {
	if err := market.Validate(); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	levels, err := leg.Resolve(market.Spot)
	if err != nil {
		if errors.Is(err, common.ErrUnknownInstrument) {
			return Quote{}, fmt.Errorf("%w: %w", ErrUnsupportedInstrument, err)
		}
		return Quote{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	spot := market.Spot
	rd, rf := market.DomesticRate, market.ForeignRate
	t := leg.Maturity(market.TimeToMaturity)
	sigma := leg.Sigma(market.Volatility)

	switch leg.Type {
	case common.InstrumentForward, common.InstrumentSwap:
		return Quote{FixedRate: ForwardRate(spot, rd, rf, t), Method: MethodNone}, nil

	case common.InstrumentCall, common.InstrumentPut:
		if !l.forceMonteCarlo {
			p, err := VanillaClosedForm(leg.Type, spot, levels.Strike, rd, rf, t, sigma)
			if err == nil {
				return l.closedForm(leg, p), nil
			}
			if !errors.Is(err, ErrNumericalInstability) {
				return Quote{}, err
			}
			l.logger.Warn("closed form unstable, falling back to simulation", append(leg.Fields(), zap.Error(err))...)
		}
		est, err := VanillaMonteCarlo(leg.Type, spot, levels.Strike, rd, rf, t, sigma, l.simulation)
		return l.monteCarlo(leg, est, err)

	case common.InstrumentKnockoutCall, common.InstrumentKnockoutPut, common.InstrumentKnockinCall, common.InstrumentKnockinPut:
		if !levels.HasSecond && !l.forceMonteCarlo {
			p, err := BarrierClosedForm(leg.Type, spot, levels.Strike, rd, rf, t, sigma, levels.Barrier)
			if err == nil {
				return l.closedForm(leg, p), nil
			}
			if !errors.Is(err, ErrNumericalInstability) {
				return Quote{}, err
			}
			l.logger.Warn("closed form unstable, falling back to simulation", append(leg.Fields(), zap.Error(err))...)
		}
		est, err := BarrierMonteCarlo(leg.Type, spot, levels.Strike, rd, rf, t, sigma, levels.Barrier, levels.SecondBarrier, l.simulation)
		return l.monteCarlo(leg, est, err)

	case common.InstrumentOneTouch, common.InstrumentNoTouch, common.InstrumentDoubleTouch, common.InstrumentDoubleNoTouch,
		common.InstrumentRangeBinary, common.InstrumentOutsideBinary:
		est, err := DigitalMonteCarlo(leg.Type, spot, levels.Strike, rd, rf, t, sigma, levels.Barrier, levels.SecondBarrier, leg.RebatePercent(), l.simulation)
		return l.monteCarlo(leg, est, err)

	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrUnsupportedInstrument, leg.Type)
	}
}

// EstimateLeg is the cheap valuation used per scenario by the curve generator:
// closed forms only, with double-barrier knock options bounded by their vanilla.
func (l *Library) EstimateLeg(leg common.Leg, market common.MarketModel) (float64, error) {
	levels, err := leg.Resolve(market.Spot)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	spot := market.Spot
	rd, rf := market.DomesticRate, market.ForeignRate
	t := leg.Maturity(market.TimeToMaturity)
	sigma := leg.Sigma(market.Volatility)

	switch {
	case leg.Type.IsLinear():
		return 0, nil
	case leg.Type.IsVanilla():
		return VanillaClosedForm(leg.Type, spot, levels.Strike, rd, rf, t, sigma)
	case leg.Type.IsBarrier() && levels.HasSecond:
		vanillaType := common.InstrumentPut
		if leg.Type.IsCallLike() {
			vanillaType = common.InstrumentCall
		}
		return VanillaClosedForm(vanillaType, spot, levels.Strike, rd, rf, t, sigma)
	case leg.Type.IsBarrier():
		return BarrierClosedForm(leg.Type, spot, levels.Strike, rd, rf, t, sigma, levels.Barrier)
	case leg.Type.IsDigital():
		return DigitalClosedForm(leg.Type, spot, levels.Strike, rd, rf, t, sigma, levels.Barrier, levels.SecondBarrier, leg.RebatePercent())
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedInstrument, leg.Type)
	}
}

func (l *Library) closedForm(leg common.Leg, premium float64) Quote {
	l.logger.Debug("leg priced", append(leg.Fields(),
		zap.String("method", string(MethodClosedForm)),
		zap.Float64("premium", premium))...)
	return Quote{Premium: premium, Method: MethodClosedForm}
}

func (l *Library) monteCarlo(leg common.Leg, est Estimate, err error) (Quote, error) {
	if err != nil {
		return Quote{}, err
	}
	l.logger.Debug("leg priced", append(leg.Fields(),
		zap.String("method", string(MethodMonteCarlo)),
		zap.Float64("premium", est.Value),
		zap.Float64("std_err", est.StdErr),
		zap.Int64("paths", est.Paths))...)
	return Quote{Premium: est.Value, StdErr: est.StdErr, Method: MethodMonteCarlo}, nil
}

// NetPremium is the strategy's upfront cost: long legs pay, short legs receive.
func NetPremium(strategy common.Strategy, premiums []float64) float64 {
	total := 0.0
	for i, leg := range strategy {
		if i >= len(premiums) {
			break
		}
		switch {
		case leg.Quantity > 0:
			total += premiums[i]
		case leg.Quantity < 0:
			total -= premiums[i]
		}
	}
	return total
}
