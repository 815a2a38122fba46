package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/internal/config"
	"github.com/peter-kozarec/hedgefx/internal/dbg"
	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/payoff"
	"github.com/peter-kozarec/hedgefx/pkg/pricing"
)

var Version = "dev"

// env is shared by every subcommand once the root pre-run has loaded it.
type env struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "hedgefx",
		Short:         "FX hedge pricing and effective-rate curves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&e.configPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return e.load()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if e.logger != nil {
			_ = e.logger.Sync()
		}
	}

	cmd.AddCommand(
		newPriceCmd(e),
		newCurveCmd(e),
		newServeCmd(e),
		newFmtCmd(e),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hedgefx %s\n", Version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (e *env) load() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.Log.Level = e.logLevel
	}

	logger, err := dbg.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	return nil
}

func (e *env) library() *pricing.Library {
	sim := e.cfg.Simulation
	return pricing.NewLibrary(e.logger,
		pricing.WithPaths(sim.Paths),
		pricing.WithSeed(sim.Seed),
		pricing.WithWorkers(sim.Workers),
		pricing.WithTolerance(sim.Tolerance),
		pricing.WithMinSteps(sim.MinSteps),
		pricing.WithStepsPerYear(sim.StepsPerYear))
}

func (e *env) curveWorkers() int {
	if e.cfg.Curve.Parallel {
		return e.cfg.Simulation.Workers
	}
	return 1
}

// curveMarket fills the market fields the curve generator needs from config
// where the document leaves them unset.
func (e *env) curveMarket(market common.MarketModel) common.MarketModel {
	if market.DomesticRate == 0 && market.ForeignRate == 0 {
		market.DomesticRate = e.cfg.Curve.DomesticRate
		market.ForeignRate = e.cfg.Curve.ForeignRate
	}
	if market.TimeToMaturity <= 0 {
		market.TimeToMaturity = e.cfg.Curve.Maturity
	}
	if market.Volatility <= 0 {
		market.Volatility = payoff.DefaultVolatility
	}
	return market
}
