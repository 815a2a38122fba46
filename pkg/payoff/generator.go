package payoff

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peter-kozarec/hedgefx/pkg/common"
)

const (
	Points = 101

	lowerBound = 0.7
	upperBound = 1.3

	DefaultMaturity   = 1.0
	DefaultVolatility = 0.1
)

var (
	ErrInvalidReferenceSpot = errors.New("reference spot must be positive")
	ErrPremiumMismatch      = errors.New("premium count does not match leg count")
)

// Pricer estimates a leg's premium at a scenario spot.
type Pricer interface {
	EstimateLeg(leg common.Leg, market common.MarketModel) (float64, error)
}

// Generator sweeps a spot range and derives the hedged effective rate of a
// strategy at each scenario spot.
type Generator struct {
	logger  *zap.Logger
	pricer  Pricer
	market  common.MarketModel
	workers int
}

func NewGenerator(logger *zap.Logger, pricer Pricer, options ...GeneratorOption) *Generator {
	g := &Generator{
		logger: logger,
		pricer: pricer,
		market: common.MarketModel{
			Volatility:     DefaultVolatility,
			TimeToMaturity: DefaultMaturity,
		},
		workers: 1,
	}

	for _, option := range options {
		option(g)
	}

	return g
}

// Generate returns Points scenario points spanning [0.7, 1.3] x referenceSpot in
// ascending spot order. When premiums is non-nil it holds one premium per leg,
// applied unchanged at every scenario; otherwise premiums are estimated per
// scenario through the pricer.
func (g *Generator) Generate(strategy common.Strategy, referenceSpot float64, includePremium bool, premiums []float64) ([]common.CurvePoint, error) {
	if !(referenceSpot > 0) || math.IsInf(referenceSpot, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidReferenceSpot, referenceSpot)
	}
	if premiums != nil && len(premiums) != len(strategy) {
		return nil, fmt.Errorf("%w: %d premiums for %d legs", ErrPremiumMismatch, len(premiums), len(strategy))
	}

	legs := g.legStates(strategy, referenceSpot)

	minSpot := lowerBound * referenceSpot
	maxSpot := upperBound * referenceSpot
	step := (maxSpot - minSpot) / (Points - 1)

	points := make([]common.CurvePoint, Points)
	compute := func(i int) {
		s := minSpot + float64(i)*step
		points[i] = g.scenario(strategy, legs, s, includePremium, premiums)
	}

	workers := g.workers
	if workers <= 1 {
		for i := range points {
			compute(i)
		}
	} else {
		var group errgroup.Group
		for w := 0; w < workers; w++ {
			group.Go(func() error {
				for i := w; i < Points; i += workers {
					compute(i)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	g.logger.Debug("curve generated",
		zap.Int("legs", len(strategy)),
		zap.Int("active_legs", countActive(legs)),
		zap.Float64("reference_spot", referenceSpot),
		zap.Bool("include_premium", includePremium),
		zap.Bool("precomputed_premium", premiums != nil))

	return points, nil
}

// legState is what the generator fixes about a leg once per curve.
type legState struct {
	active bool
	up     bool
}

// legStates flags the legs that take part in the curve and fixes the side of
// their single barrier. Zero-quantity legs and legs whose levels do not
// resolve are dropped once, with a warning.
func (g *Generator) legStates(strategy common.Strategy, referenceSpot float64) []legState {
	legs := make([]legState, len(strategy))
	for i, leg := range strategy {
		if leg.Quantity == 0 {
			g.logger.Warn("ignoring zero quantity leg", zap.Int("leg", i), zap.String("type", string(leg.Type)))
			continue
		}
		if _, err := leg.Resolve(referenceSpot); err != nil {
			g.logger.Warn("ignoring invalid leg", append(leg.Fields(), zap.Int("leg", i), zap.Error(err))...)
			continue
		}
		legs[i] = legState{active: true, up: barrierUp(leg, referenceSpot)}
	}
	return legs
}

func (g *Generator) scenario(strategy common.Strategy, legs []legState, s float64, includePremium bool, premiums []float64) common.CurvePoint {
	hedged := s
	totalPremium := 0.0

	for i, leg := range strategy {
		state := legs[i]
		if !state.active {
			continue
		}

		lv, err := leg.Resolve(s)
		if err != nil {
			continue
		}

		hedged = applyLeg(leg, lv, s, state.up, hedged)

		if !includePremium {
			continue
		}

		var premium float64
		if premiums != nil {
			premium = premiums[i]
		} else {
			premium = g.estimate(leg, lv, s, state.up)
		}

		if leg.IsLong() {
			totalPremium += premium
		} else {
			totalPremium -= premium
		}
	}

	if includePremium && len(strategy) > 0 {
		hedged += totalPremium
	}

	return common.CurvePoint{
		Spot:         s,
		UnhedgedRate: s,
		HedgedRate:   hedged,
	}
}

// estimate asks the pricer for a premium at s. Legs whose barrier outcome is
// already decided at s are valued as settled, and the leg's intrinsic value
// stands in when the pricer has no estimate.
func (g *Generator) estimate(leg common.Leg, lv common.Resolved, s float64, up bool) float64 {
	if premium, ok := g.settled(leg, lv, s, up); ok {
		return premium
	}

	premium, err := g.pricer.EstimateLeg(leg, g.market.WithSpot(s))
	if err == nil {
		return premium
	}

	g.logger.Debug("premium estimate unavailable, using intrinsic value",
		append(leg.Fields(), zap.Float64("spot", s), zap.Error(err))...)
	return intrinsic(leg, lv, s)
}

// settled values a barrier or touch leg whose barrier is breached at s: a
// knock-out is worthless and a knock-in is its vanilla, a touch pays the
// discounted rebate and a no-touch pays nothing.
func (g *Generator) settled(leg common.Leg, lv common.Resolved, s float64, up bool) (float64, bool) {
	switch leg.Type {
	case common.InstrumentKnockoutCall, common.InstrumentKnockoutPut:
		return 0, knocked(lv, s, up)

	case common.InstrumentKnockinCall, common.InstrumentKnockinPut:
		if !knocked(lv, s, up) {
			return 0, false
		}
		return g.vanilla(leg, lv, s), true

	case common.InstrumentOneTouch, common.InstrumentNoTouch:
		if !breached(lv.Barrier, s, up) {
			return 0, false
		}
		if leg.Type == common.InstrumentOneTouch {
			return g.rebate(leg), true
		}
		return 0, true

	case common.InstrumentDoubleTouch, common.InstrumentDoubleNoTouch:
		if !outside(lv, s) {
			return 0, false
		}
		if leg.Type == common.InstrumentDoubleTouch {
			return g.rebate(leg), true
		}
		return 0, true
	}

	return 0, false
}

func (g *Generator) vanilla(leg common.Leg, lv common.Resolved, s float64) float64 {
	v := leg
	v.Type = common.InstrumentPut
	if leg.Type.IsCallLike() {
		v.Type = common.InstrumentCall
	}
	v.Barrier, v.SecondBarrier = nil, nil

	premium, err := g.pricer.EstimateLeg(v, g.market.WithSpot(s))
	if err != nil {
		return intrinsic(v, lv, s)
	}
	return premium
}

func (g *Generator) rebate(leg common.Leg) float64 {
	t := leg.Maturity(g.market.TimeToMaturity)
	return math.Exp(-g.market.DomesticRate*t) * leg.RebatePercent() / 100
}

func intrinsic(leg common.Leg, lv common.Resolved, s float64) float64 {
	switch {
	case leg.Type.IsLinear() || leg.Type.IsDigital():
		return 0
	case leg.Type.IsCallLike():
		return math.Max(s-lv.Strike, 0)
	default:
		return math.Max(lv.Strike-s, 0)
	}
}

func countActive(legs []legState) int {
	n := 0
	for _, l := range legs {
		if l.active {
			n++
		}
	}
	return n
}
