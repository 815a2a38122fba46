package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/internal/api"
	"github.com/peter-kozarec/hedgefx/pkg/common"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pricing and curve HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = e.cfg.Server.Addr
			}

			server := api.NewServer(e.logger, e.library(),
				api.WithAppName(e.cfg.Server.AppName),
				api.WithQuoteDigits(e.cfg.Curve.QuoteDigits),
				api.WithCurveMarket(e.curveMarket(common.MarketModel{})),
				api.WithCurveWorkers(e.curveWorkers()))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			e.logger.Info("shutting down")
			if err := server.Shutdown(); err != nil {
				e.logger.Warn("shutdown", zap.Error(err))
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
