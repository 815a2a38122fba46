package pricing

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/simulation"
	"github.com/peter-kozarec/hedgefx/pkg/utility/stats"
)

const (
	DefaultPaths        = 1000
	DefaultSeed         = 42
	DefaultMinSteps     = 64
	DefaultStepsPerYear = 252

	// Chunk seeds are spaced apart so sub-streams never share a source seed.
	chunkSeedStride = 1_000_003
)

// Simulation controls a Monte-Carlo valuation. Results are reproducible for a
// fixed Seed and Workers pair: paths are split into Workers chunks, each with
// its own generator, and the partial sums are reduced in chunk order.
type Simulation struct {
	Paths        int
	Seed         int64
	Workers      int
	Tolerance    float64
	MinSteps     int
	StepsPerYear int
}

func DefaultSimulation() Simulation {
	return Simulation{
		Paths:        DefaultPaths,
		Seed:         DefaultSeed,
		Workers:      1,
		MinSteps:     DefaultMinSteps,
		StepsPerYear: DefaultStepsPerYear,
	}
}

// Estimate is a discounted Monte-Carlo price and its standard error.
type Estimate struct {
	Value  float64
	StdErr float64
	Paths  int64
}

type pathPayoff func(g *simulation.PathGenerator) float64

func (s Simulation) steps(t, sigma float64) int {
	minSteps, perYear := s.MinSteps, s.StepsPerYear
	if minSteps <= 0 {
		minSteps = DefaultMinSteps
	}
	if perYear <= 0 {
		perYear = DefaultStepsPerYear
	}
	return simulation.Steps(t, sigma, minSteps, perYear)
}

func (s Simulation) run(spot, drift, sigma, t float64, steps int, discount float64, payoff pathPayoff) (Estimate, error) {
	if s.Paths <= 0 {
		return Estimate{}, fmt.Errorf("%w: path count must be positive, got %d", ErrInvalidParameter, s.Paths)
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > s.Paths {
		workers = s.Paths
	}

	partials := make([]stats.Accumulator[float64], workers)

	var group errgroup.Group
	for w := 0; w < workers; w++ {
		from := w * s.Paths / workers
		to := (w + 1) * s.Paths / workers
		seed := s.Seed + int64(w)*chunkSeedStride

		group.Go(func() error {
			gen := simulation.NewPathGenerator(rand.New(rand.NewSource(seed)), spot, drift, sigma, t, steps)
			acc := &partials[w]
			for i := from; i < to; i++ {
				v := payoff(gen)
				if !isFinite(v) {
					return fmt.Errorf("%w: non-finite payoff on path %d", ErrNumericalInstability, i)
				}
				acc.Add(v)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Estimate{}, err
	}

	var total stats.Accumulator[float64]
	for _, p := range partials {
		total.Merge(p)
	}

	est := Estimate{
		Value:  discount * total.Mean(),
		StdErr: discount * total.StdErr(),
		Paths:  total.Count(),
	}
	if s.Tolerance > 0 && est.StdErr > s.Tolerance {
		return est, fmt.Errorf("%w: standard error %.6g exceeds tolerance %.6g after %d paths",
			ErrSimulationNonConvergence, est.StdErr, s.Tolerance, est.Paths)
	}
	return est, nil
}

// VanillaMonteCarlo simulates the terminal spot of a European call or put.
func VanillaMonteCarlo(optionType common.InstrumentType, spot, strike, domesticRate, foreignRate, t, sigma float64, sim Simulation) (Estimate, error) {
	if optionType != common.InstrumentCall && optionType != common.InstrumentPut {
		return Estimate{}, fmt.Errorf("%w: %q is not a vanilla option", ErrUnsupportedInstrument, optionType)
	}
	if err := validateSimulation(spot, strike, t, sigma); err != nil {
		return Estimate{}, err
	}

	call := optionType == common.InstrumentCall
	payoff := func(g *simulation.PathGenerator) float64 {
		return intrinsic(call, g.Terminal(), strike)
	}

	return sim.run(spot, domesticRate-foreignRate, sigma, t, 1, math.Exp(-domesticRate*t), payoff)
}

// BarrierMonteCarlo values knock-in and knock-out options path by path. With a
// second barrier the option knocks on a touch of either level.
func BarrierMonteCarlo(optionType common.InstrumentType, spot, strike, domesticRate, foreignRate, t, sigma, barrier, secondBarrier float64, sim Simulation) (Estimate, error) {
	if !optionType.IsBarrier() {
		return Estimate{}, fmt.Errorf("%w: %q is not a barrier option", ErrUnsupportedInstrument, optionType)
	}
	if err := validateSimulation(spot, strike, t, sigma); err != nil {
		return Estimate{}, err
	}
	barriers, err := monitoredBarriers(spot, barrier, secondBarrier)
	if err != nil {
		return Estimate{}, err
	}

	call := optionType.IsCallLike()
	knockIn := optionType.IsKnockIn()
	payoff := func(g *simulation.PathGenerator) float64 {
		p := g.Walk(barriers)
		if p.Hit() != knockIn {
			return 0
		}
		return intrinsic(call, p.Terminal, strike)
	}

	return sim.run(spot, domesticRate-foreignRate, sigma, t, sim.steps(t, sigma), math.Exp(-domesticRate*t), payoff)
}

// DigitalMonteCarlo values touch and binary options paying rebate percent of
// notional when their condition holds. Range and outside binaries use strike as
// the lower and barrier as the upper bound and look at the terminal spot only.
func DigitalMonteCarlo(optionType common.InstrumentType, spot, strike, domesticRate, foreignRate, t, sigma, barrier, secondBarrier, rebate float64, sim Simulation) (Estimate, error) {
	if !optionType.IsDigital() {
		return Estimate{}, fmt.Errorf("%w: %q is not a digital option", ErrUnsupportedInstrument, optionType)
	}
	if err := validateSimulation(spot, spot, t, sigma); err != nil {
		return Estimate{}, err
	}

	cash := rebate / 100
	drift := domesticRate - foreignRate
	discount := math.Exp(-domesticRate * t)

	switch optionType {
	case common.InstrumentRangeBinary, common.InstrumentOutsideBinary:
		if !(strike > 0) || !(barrier > strike) {
			return Estimate{}, fmt.Errorf("%w: binary range [%v, %v] is empty", ErrInvalidParameter, strike, barrier)
		}
		inside := optionType == common.InstrumentRangeBinary
		payoff := func(g *simulation.PathGenerator) float64 {
			st := g.Terminal()
			if (st >= strike && st <= barrier) == inside {
				return cash
			}
			return 0
		}
		return sim.run(spot, drift, sigma, t, 1, discount, payoff)
	}

	var barriers simulation.Barriers
	var err error
	switch optionType {
	case common.InstrumentDoubleTouch, common.InstrumentDoubleNoTouch:
		if !(secondBarrier > 0) {
			return Estimate{}, fmt.Errorf("%w: %s needs two barriers", ErrInvalidParameter, optionType)
		}
		barriers, err = monitoredBarriers(spot, barrier, secondBarrier)
	default:
		barriers, err = monitoredBarriers(spot, barrier, 0)
	}
	if err != nil {
		return Estimate{}, err
	}

	touch := optionType == common.InstrumentOneTouch || optionType == common.InstrumentDoubleTouch
	payoff := func(g *simulation.PathGenerator) float64 {
		if g.Walk(barriers).Hit() == touch {
			return cash
		}
		return 0
	}
	return sim.run(spot, drift, sigma, t, sim.steps(t, sigma), discount, payoff)
}

func monitoredBarriers(spot, barrier, secondBarrier float64) (simulation.Barriers, error) {
	if !(barrier > 0) || math.IsInf(barrier, 0) {
		return simulation.Barriers{}, fmt.Errorf("%w: barrier must be positive, got %v", ErrInvalidParameter, barrier)
	}
	if secondBarrier > 0 {
		return simulation.Barriers{
			Lower: math.Min(barrier, secondBarrier),
			Upper: math.Max(barrier, secondBarrier),
		}, nil
	}
	if barrier < spot {
		return simulation.Barriers{Lower: barrier}, nil
	}
	return simulation.Barriers{Upper: barrier}, nil
}

func validateSimulation(spot, strike, t, sigma float64) error {
	switch {
	case !(spot > 0) || math.IsInf(spot, 0):
		return fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidParameter, spot)
	case !(strike > 0) || math.IsInf(strike, 0):
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidParameter, strike)
	case !(t > 0):
		return fmt.Errorf("%w: time to maturity must be positive, got %v", ErrInvalidParameter, t)
	case !(sigma >= 0) || math.IsInf(sigma, 0):
		return fmt.Errorf("%w: volatility must not be negative, got %v", ErrInvalidParameter, sigma)
	}
	return nil
}

func intrinsic(call bool, spot, strike float64) float64 {
	if call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}
