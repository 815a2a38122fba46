package api

import "github.com/peter-kozarec/hedgefx/pkg/common"

type ServerOption func(*Server)

func WithAppName(name string) ServerOption {
	return func(s *Server) {
		s.appName = name
	}
}

// WithQuoteDigits rounds curve rates in responses; a negative value disables rounding.
func WithQuoteDigits(digits int) ServerOption {
	return func(s *Server) {
		s.quoteDigits = digits
	}
}

// WithCurveMarket sets the rates, maturity and volatility used for curve
// premium estimates when a request carries no market.
func WithCurveMarket(market common.MarketModel) ServerOption {
	return func(s *Server) {
		s.curveMarket = market
	}
}

func WithCurveWorkers(workers int) ServerOption {
	return func(s *Server) {
		s.curveWorkers = workers
	}
}
