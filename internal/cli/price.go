package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peter-kozarec/hedgefx/internal/document"
	"github.com/peter-kozarec/hedgefx/pkg/pricing"
	"github.com/peter-kozarec/hedgefx/pkg/utility"
	"github.com/peter-kozarec/hedgefx/pkg/utility/fixed"
)

func newPriceCmd(e *env) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price every leg of a strategy document",
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

			runID := utility.NewRunID()
			quotes, err := e.library().QuoteStrategy(strategy, doc.Market)
			if err != nil {
				return err
			}

			digits := e.cfg.Curve.QuoteDigits
			premiums := make([]float64, len(quotes))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "run\t%s\n", runID)
			fmt.Fprintln(w, "leg\ttype\tquantity\tpremium\tstd_err\tfixed_rate\tmethod")
			for i, q := range quotes {
				premiums[i] = q.Premium
				fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%s\t%s\t%s\n", i, strategy[i].Type, strategy[i].Quantity,
					format(q.Premium, digits+2), format(q.StdErr, digits+2), format(q.FixedRate, digits), q.Method)
			}
			fmt.Fprintf(w, "net\t\t\t%s\n", format(pricing.NetPremium(strategy, premiums), digits+2))
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "Strategy document (YAML)")
	return cmd
}

func format(v float64, digits int) string {
	p, err := fixed.FromFloat64(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return p.Rescale(digits).String()
}
