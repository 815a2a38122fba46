package simulation

import (
	"math"
	"math/rand"
)

const (
	// Paths are stepped finely enough that sigma^2*dt never exceeds 1/stepsPerVariance.
	stepsPerVariance = 2500
)

// Barriers are monitored continuously along a path. A zero level is not monitored.
type Barriers struct {
	Lower float64
	Upper float64
}

type Path struct {
	Terminal float64
	HitLower bool
	HitUpper bool
}

func (p Path) Hit() bool {
	return p.HitLower || p.HitUpper
}

// PathGenerator produces risk-neutral geometric Brownian motion paths.
type PathGenerator struct {
	rng *rand.Rand

	spot  float64
	drift float64
	sigma float64
	t     float64
	dt    float64
	steps int

	deltaLogPre1 float64
	deltaLogPre2 float64

	// bridgeScale is -2/(sigma^2 dt), used by the Brownian bridge crossing probability.
	bridgeScale float64
}

func NewPathGenerator(rng *rand.Rand, spot, drift, sigma, t float64, steps int) *PathGenerator {
	if steps < 1 {
		steps = 1
	}
	dt := t / float64(steps)

	g := &PathGenerator{
		rng:   rng,
		spot:  spot,
		drift: drift,
		sigma: sigma,
		t:     t,
		dt:    dt,
		steps: steps,

		deltaLogPre1: (drift - 0.5*sigma*sigma) * dt,
		deltaLogPre2: sigma * math.Sqrt(dt),
	}
	if v := sigma * sigma * dt; v > 0 {
		g.bridgeScale = -2 / v
	}
	return g
}

func (g *PathGenerator) Steps() int { return g.steps }

// Terminal draws the spot at maturity in a single step, ignoring the step count.
func (g *PathGenerator) Terminal() float64 {
	logDrift := (g.drift - 0.5*g.sigma*g.sigma) * g.t
	return g.spot * math.Exp(logDrift+g.sigma*math.Sqrt(g.t)*g.rng.NormFloat64())
}

// Walk simulates one path and reports barrier touches. Between two monitoring
// dates the Brownian bridge crossing probability is sampled, so touches are
// resolved as if the barrier were monitored continuously.
func (g *PathGenerator) Walk(b Barriers) Path {
	p := Path{
		HitLower: b.Lower > 0 && g.spot <= b.Lower,
		HitUpper: b.Upper > 0 && g.spot >= b.Upper,
	}

	price := g.spot
	for i := 0; i < g.steps; i++ {
		z := g.rng.NormFloat64()
		next := price * math.Exp(g.deltaLogPre1+g.deltaLogPre2*z)

		if b.Lower > 0 && !p.HitLower {
			p.HitLower = next <= b.Lower || g.bridgeCrossed(price, next, b.Lower)
		}
		if b.Upper > 0 && !p.HitUpper {
			p.HitUpper = next >= b.Upper || g.bridgeCrossed(price, next, b.Upper)
		}

		price = next
	}

	p.Terminal = price
	return p
}

func (g *PathGenerator) bridgeCrossed(from, to, level float64) bool {
	if g.bridgeScale == 0 {
		return false
	}
	prob := math.Exp(g.bridgeScale * math.Log(from/level) * math.Log(to/level))
	return g.rng.Float64() < prob
}

// Steps returns the monitoring step count for a path of length t: at least
// minSteps, at least stepsPerYear per year, and fine enough in variance.
func Steps(t, sigma float64, minSteps, stepsPerYear int) int {
	steps := minSteps
	if n := int(math.Ceil(t * float64(stepsPerYear))); n > steps {
		steps = n
	}
	if n := int(math.Ceil(t * sigma * sigma * stepsPerVariance)); n > steps {
		steps = n
	}
	if steps < 1 {
		steps = 1
	}
	return steps
}
