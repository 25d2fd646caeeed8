package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/RBrouq/trading-framework/internal/alpaca"
	"github.com/RBrouq/trading-framework/internal/config"
	"github.com/RBrouq/trading-framework/internal/logging"
	"github.com/RBrouq/trading-framework/internal/market"
)

const (
	demoSymbol = "AAPL"
	demoFeed   = "iex"
	demoWindow = 2 * 24 * time.Hour
	headRows   = 5
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "bars",
		Short:         "Fetch recent Alpaca bars and print them in the canonical schema",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.EnvFile())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logs := logging.NewManager()
			defer logs.Close()
			log, err := logs.Configure(cfg.Logging())
			if err != nil {
				return err
			}
			slog.SetDefault(log)

			if !cfg.EnvLoaded {
				log.Warn("no .env file found", "path", cfg.EnvFile)
			}
			log.Info("starting", "log_file", logs.Path())

			sc := alpaca.NewStockClient(cfg.AlpacaKey, cfg.AlpacaSecret, alpaca.WithLogger(log))
			return run(cmd.OutOrStdout(), sc, time.Now().UTC())
		},
	}
}

// run fetches the demo window ending at end and prints the head of the
// result plus its row count.
func run(out io.Writer, sc *alpaca.StockClient, end time.Time) error {
	bars, err := sc.GetHistory(alpaca.HistoryRequest{
		Symbol:    demoSymbol,
		Timeframe: market.Min1,
		Start:     end.Add(-demoWindow),
		End:       end,
		Feed:      demoFeed,
	})
	if err != nil {
		return err
	}
	if err := bars.Validate(); err != nil {
		return err
	}

	if err := bars.Format(out, headRows); err != nil {
		return err
	}
	fmt.Fprintln(out, bars.Len(), "rows received")
	return nil
}
