package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/payoff"
	"github.com/peter-kozarec/hedgefx/pkg/pricing"
	"github.com/peter-kozarec/hedgefx/pkg/utility"
)

type PriceRequest struct {
	Market common.MarketModel `json:"market"`
	Legs   common.Strategy    `json:"legs"`
}

type PriceResponse struct {
	RunID      utility.RunID   `json:"run_id"`
	Premiums   []float64       `json:"premiums"`
	Quotes     []pricing.Quote `json:"quotes"`
	NetPremium float64         `json:"net_premium"`
}

type CurveRequest struct {
	ReferenceSpot  float64              `json:"reference_spot"`
	IncludePremium bool                 `json:"include_premium"`
	Premiums       []float64            `json:"premiums,omitempty"`
	Market         *common.MarketModel  `json:"market,omitempty"`
	Legs           common.Strategy      `json:"legs"`
	Greeks         []common.GreeksPoint `json:"greeks,omitempty"`
}

type CurveResponse struct {
	RunID  utility.RunID        `json:"run_id"`
	Points []common.CurvePoint  `json:"points"`
	Greeks []common.GreeksPoint `json:"greeks"`
}

// Price values every leg at the request market.
// POST /api/v1/price
func (s *Server) Price(c *fiber.Ctx) error {
	var req PriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	runID := utility.NewRunID()
	quotes, err := s.library.QuoteStrategy(req.Legs, req.Market)
	if err != nil {
		s.logger.Warn("price request failed", zap.Stringer("run_id", runID), zap.Error(err))
		return handleError(c, err)
	}

	premiums := make([]float64, len(quotes))
	for i, q := range quotes {
		premiums[i] = q.Premium
	}

	s.logger.Info("strategy priced", zap.Stringer("run_id", runID), zap.Int("legs", len(req.Legs)))
	return c.JSON(PriceResponse{
		RunID:      runID,
		Premiums:   premiums,
		Quotes:     quotes,
		NetPremium: pricing.NetPremium(req.Legs, premiums),
	})
}

// Curve generates the hedged effective-rate curve around the reference spot.
// POST /api/v1/curve
func (s *Server) Curve(c *fiber.Ctx) error {
	var req CurveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	runID := utility.NewRunID()
	points, err := s.generator(req.Market).Generate(req.Legs, req.ReferenceSpot, req.IncludePremium, req.Premiums)
	if err != nil {
		s.logger.Warn("curve request failed", zap.Stringer("run_id", runID), zap.Error(err))
		return handleError(c, err)
	}

	if s.quoteDigits >= 0 {
		points = payoff.Round(points, s.quoteDigits)
	}

	greeks := req.Greeks
	if greeks == nil {
		greeks = []common.GreeksPoint{}
	}

	s.logger.Info("curve generated",
		zap.Stringer("run_id", runID),
		zap.Int("legs", len(req.Legs)),
		zap.Float64("reference_spot", req.ReferenceSpot))
	return c.JSON(CurveResponse{RunID: runID, Points: points, Greeks: greeks})
}

func (s *Server) generator(market *common.MarketModel) *payoff.Generator {
	m := s.curveMarket
	if market != nil {
		m.DomesticRate = market.DomesticRate
		m.ForeignRate = market.ForeignRate
		if market.TimeToMaturity > 0 {
			m.TimeToMaturity = market.TimeToMaturity
		}
		if market.Volatility > 0 {
			m.Volatility = market.Volatility
		}
	}

	return payoff.NewGenerator(s.logger, s.library,
		payoff.WithRates(m.DomesticRate, m.ForeignRate),
		payoff.WithMaturity(m.TimeToMaturity),
		payoff.WithVolatility(m.Volatility),
		payoff.WithWorkers(s.curveWorkers))
}
