package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio-intelligence/internal/agent/config"
	"portfolio-intelligence/internal/agent/service"
	"portfolio-intelligence/pkg/logger"
	"portfolio-intelligence/pkg/utils"
)

var configPath string

func runAgent(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal in scheduled environments.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting daily agent",
		zap.String("name", cfg.App.Name),
		zap.String("store", cfg.Store.Driver),
		zap.String("provider", cfg.AI.Provider))

	loc, err := utils.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		startupFailure(appLogger, "Invalid time zone", err)
	}
	now := utils.NowFunc(loc)

	store, err := newStore(cfg, appLogger)
	if err != nil {
		startupFailure(appLogger, "Failed to initialize table store", err)
	}
	defer store.close()

	gen, err := newGenerator(ctx, cfg, appLogger)
	if err != nil {
		startupFailure(appLogger, "Failed to initialize intelligence generator", err)
	}

	dedupRepo, closeDedup, err := newDedupRepository(cfg)
	if err != nil {
		startupFailure(appLogger, "Failed to initialize dedup guard", err)
	}
	defer closeDedup()

	opts := []service.Option{service.WithClock(now)}
	if notifier := newNotifier(cfg, appLogger); notifier != nil {
		opts = append(opts, service.WithTelegram(notifier))
	}
	if pusher := newMetricsPusher(cfg); pusher != nil {
		opts = append(opts, service.WithMetrics(pusher))
	}

	writer := service.NewIntelligenceWriter(appLogger, store.intelligence, dedupRepo, now)
	agentSvc := service.NewAgentService(appLogger, os.Stdout, store.portfolio, gen, writer, opts...)

	report := agentSvc.Run(ctx)
	if !report.Succeeded() && cfg.Agent.ExitOnFailure {
		_ = appLogger.Sync()
		os.Exit(1)
	}
}

// startupFailure reports a wiring error the same way a failed run is reported,
// then exits non-zero: nothing has run yet.
func startupFailure(appLogger *logger.Logger, msg string, err error) {
	fmt.Fprintf(os.Stdout, "❌ Error: %v\n", err)
	appLogger.Error(msg, zap.Error(err))
	_ = appLogger.Sync()
	os.Exit(1)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "daily-agent",
		Short: "Generates daily news intelligence for the tracked portfolio",
		Long: `daily-agent reads every asset in portfolio_assets, generates one news and
sentiment entry per ticker and appends them to daily_intelligence. It runs once
and exits; schedule it externally.`,
		Args: cobra.NoArgs,
		Run:  runAgent,
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the pipeline once (same as no subcommand)",
		Args:  cobra.NoArgs,
		Run:   runAgent,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-agent.yaml", "Path to the configuration file")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing daily-agent CLI: %s\n", err)
		os.Exit(1)
	}
}
