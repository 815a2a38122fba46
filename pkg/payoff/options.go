package payoff

type GeneratorOption func(*Generator)

// WithRates sets the domestic and foreign rates used for premium estimates.
func WithRates(domestic, foreign float64) GeneratorOption {
	return func(g *Generator) {
		g.market.DomesticRate = domestic
		g.market.ForeignRate = foreign
	}
}

// WithMaturity is the time to maturity used for legs without their own.
func WithMaturity(t float64) GeneratorOption {
	return func(g *Generator) {
		g.market.TimeToMaturity = t
	}
}

// WithVolatility is the volatility used for legs without their own.
func WithVolatility(sigma float64) GeneratorOption {
	return func(g *Generator) {
		g.market.Volatility = sigma
	}
}

// WithWorkers computes scenario points on up to n goroutines; 1 is sequential.
func WithWorkers(n int) GeneratorOption {
	return func(g *Generator) {
		g.workers = n
	}
}
