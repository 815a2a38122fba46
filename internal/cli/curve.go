package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/internal/document"
	"github.com/peter-kozarec/hedgefx/internal/store/duckdb"
	"github.com/peter-kozarec/hedgefx/pkg/payoff"
	"github.com/peter-kozarec/hedgefx/pkg/utility"
)

func newCurveCmd(e *env) *cobra.Command {
	var (
		path           string
		includePremium bool
		priced         bool
		duckdbPath     string
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Generate the hedged effective-rate curve of a strategy document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("-f is required")
			}

			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			strategy, err := doc.Strategy()
			if err != nil {
				return err
			}

			library := e.library()
			market := e.curveMarket(doc.Market)

			// --priced values each leg once at the document market and applies
			// those premiums unchanged across the curve.
			var premiums []float64
			if priced {
				if premiums, err = library.PriceStrategy(strategy, market); err != nil {
					return err
				}
			}

			generator := payoff.NewGenerator(e.logger, library,
				payoff.WithRates(market.DomesticRate, market.ForeignRate),
				payoff.WithMaturity(market.TimeToMaturity),
				payoff.WithVolatility(market.Volatility),
				payoff.WithWorkers(e.curveWorkers()))

			runID := utility.NewRunID()
			curve, err := generator.Generate(strategy, doc.ReferenceSpot, includePremium, premiums)
			if err != nil {
				return err
			}
			curve = payoff.Round(curve, e.cfg.Curve.QuoteDigits)

			if duckdbPath == "" {
				duckdbPath = e.cfg.Export.DuckDB
			}
			if duckdbPath != "" {
				if err := export(cmd, e, duckdbPath, duckdb.Run{
					ID:             runID,
					CreatedAt:      time.Now().UTC(),
					Name:           doc.Name,
					ReferenceSpot:  doc.ReferenceSpot,
					IncludePremium: includePremium,
					Strategy:       strategy,
					Premiums:       premiums,
					Curve:          curve,
				}); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "run\t%s\n", runID)
			fmt.Fprintln(w, "spot\tunhedged\thedged")
			for _, p := range curve {
				fmt.Fprintf(w, "%v\t%v\t%v\n", p.Spot, p.UnhedgedRate, p.HedgedRate)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Strategy document (YAML)")
	cmd.Flags().BoolVar(&includePremium, "premium", false, "Include option premiums in the hedged rate")
	cmd.Flags().BoolVar(&priced, "priced", false, "Use premiums priced at the document market instead of per-scenario estimates")
	cmd.Flags().StringVar(&duckdbPath, "duckdb", "", "Export the run to this DuckDB database")
	return cmd
}

func export(cmd *cobra.Command, e *env, path string, run duckdb.Run) error {
	store := duckdb.NewStore(e.logger, path)
	if err := store.Connect(cmd.Context()); err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteRun(cmd.Context(), run); err != nil {
		return err
	}
	e.logger.Info("run exported", zap.Stringer("run_id", run.ID), zap.String("path", path))
	return nil
}
