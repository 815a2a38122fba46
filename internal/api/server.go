package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/payoff"
	"github.com/peter-kozarec/hedgefx/pkg/pricing"
)

// Server exposes the pricing library and the curve generator to the dashboard.
type Server struct {
	logger  *zap.Logger
	library *pricing.Library
	app     *fiber.App

	appName      string
	quoteDigits  int
	curveMarket  common.MarketModel
	curveWorkers int
}

func NewServer(logger *zap.Logger, library *pricing.Library, options ...ServerOption) *Server {
	s := &Server{
		logger:  logger,
		library: library,
		appName: "hedgefx",
		curveMarket: common.MarketModel{
			Volatility:     payoff.DefaultVolatility,
			TimeToMaturity: payoff.DefaultMaturity,
		},
		quoteDigits:  5,
		curveWorkers: 1,
	}

	for _, option := range options {
		option(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               s.appName,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Service is healthy",
		})
	})

	v1 := s.app.Group("/api/v1")
	v1.Post("/price", s.Price)
	v1.Post("/curve", s.Curve)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr), zap.String("app", s.appName))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidParameter),
		errors.Is(err, pricing.ErrUnsupportedInstrument),
		errors.Is(err, payoff.ErrInvalidReferenceSpot),
		errors.Is(err, payoff.ErrPremiumMismatch):
		return fiber.StatusBadRequest
	case errors.Is(err, pricing.ErrNumericalInstability),
		errors.Is(err, pricing.ErrSimulationNonConvergence):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func handleError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
