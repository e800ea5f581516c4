package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propdesk/propdesk/config"
	"github.com/propdesk/propdesk/journal"
	"github.com/propdesk/propdesk/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulator from a config file",
	Long: `Start the trading simulator: seed accounts, walk prices, and run the
risk evaluation loop until interrupted.

Example:
  propdesk run -f propdesk.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	var j journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	default:
		j = journal.Nop()
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	prices := sim.NewPriceBook(cfg.Simulation.Seed)
	engine := sim.NewEngine(prices, j, logger)

	for _, a := range cfg.Accounts {
		if err := engine.CreateAccount(a.ID, a.StartingBalance); err != nil {
			return fmt.Errorf("seed account: %w", err)
		}
		logger.Info("account seeded",
			zap.String("account", a.ID),
			zap.Float64("balance", a.StartingBalance))
	}

	tickInterval, _ := cfg.Simulation.ParseTickInterval()
	priceInterval, _ := cfg.Simulation.ParsePriceInterval()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := sim.NewTicker(engine, tickInterval, logger)
	ticker.Start(ctx)
	defer ticker.Stop()

	// Stand-in for the external transport that streams live prices.
	go func() {
		t := time.NewTicker(priceInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				engine.AdvancePrices()
				for _, a := range cfg.Accounts {
					engine.ComputeSnapshot(a.ID)
				}
			}
		}
	}()

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("metrics endpoint up", zap.String("addr", cfg.Metrics.Addr))
	}

	logger.Info("simulator running",
		zap.Duration("tick_interval", tickInterval),
		zap.Duration("price_interval", priceInterval))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	for _, a := range cfg.Accounts {
		snap, err := engine.ComputeSnapshot(a.ID)
		if err != nil {
			continue
		}
		fmt.Printf("%s: net worth $%.2f (realized %.2f, fees %.2f, open %d)\n",
			a.ID, snap.NetWorth, snap.RealizedPnl, snap.TotalFeesPaid, snap.OpenPositions)
	}

	return nil
}
