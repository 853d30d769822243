// ====================================
// File: cmd/levermon/main.go
// ====================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eldarkhamitov/levermon/internal/amm"
	"github.com/eldarkhamitov/levermon/internal/blockchain/solbc"
	"github.com/eldarkhamitov/levermon/internal/config"
	"github.com/eldarkhamitov/levermon/internal/events"
	"github.com/eldarkhamitov/levermon/internal/lever"
	"github.com/eldarkhamitov/levermon/internal/logger"
	"github.com/eldarkhamitov/levermon/internal/monitor"
	"github.com/eldarkhamitov/levermon/internal/oracle"
	"github.com/eldarkhamitov/levermon/internal/storage"
	"github.com/eldarkhamitov/levermon/internal/storage/postgres"
	"github.com/eldarkhamitov/levermon/internal/ui"
)

const historyLimit = 20

func main() {
	configPath := flag.String("config", "configs/config.json", "path to config file")
	watch := flag.Bool("watch", false, "run the live terminal dashboard")
	history := flag.String("history", "", "print recent stored snapshots for a pool address and exit")
	flag.Parse()

	if err := run(*configPath, *watch, *history); err != nil {
		fmt.Fprintln(os.Stderr, "levermon:", err)
		os.Exit(1)
	}
}

func run(configPath string, watch bool, history string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     50,
		MaxBackups:  3,
		MaxAge:      14,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if history != "" {
		return printHistory(cfg, history, log)
	}

	log.Info("starting levermon",
		zap.Int("rpc_endpoints", len(cfg.RPCList)),
		zap.Int("pools", len(cfg.Pools)),
		zap.Bool("watch", watch))

	client, err := solbc.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}

	poolManager := lever.NewPoolManager(client, log.Logger)

	var priceSource oracle.PriceSource
	if cfg.SolPriceAccount != "" {
		priceAccount := solana.MustPublicKeyFromBase58(cfg.SolPriceAccount)
		priceSource = oracle.NewPythSource(client, priceAccount, log.Logger)
	} else {
		log.Info("using pinned SOL/USD price", zap.Float64("price", cfg.SolPriceUSD))
		priceSource = oracle.Static{Price: cfg.SolPriceUSD}
	}

	bus := events.NewBus(log.Logger, 256)

	var store storage.Storage
	if cfg.PostgresURL != "" {
		store, err = postgres.NewStorage(cfg.PostgresURL, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := store.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		recorder := storage.NewRecorder(store, log.Logger)
		recorder.Attach(bus)
		defer recorder.Detach()
	}

	svc := monitor.NewService(buildMonitorConfig(cfg), poolManager, priceSource, bus, log.WithOperation("monitoring"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runHealthChecks(ctx, client, log.Logger)

	if watch {
		err = runWithDashboard(ctx, svc, bus)
	} else {
		err = svc.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if busErr := bus.Shutdown(shutdownCtx); busErr != nil {
		log.Warn("event bus shutdown incomplete", zap.Error(busErr))
	}
	if store != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Warn("storage close failed", zap.Error(closeErr))
		}
	}

	return err
}

// runWithDashboard runs the monitor and the TUI side by side; either
// one ending (quit key, error, SIGINT) stops the other.
func runWithDashboard(ctx context.Context, svc *monitor.Service, bus *events.Bus) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(ui.NewDashboard(), tea.WithAltScreen())
	bridge := ui.NewBridge(program, bus)
	defer bridge.Close()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := svc.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})

	go func() {
		// Tear the TUI down when the surrounding context ends
		// (SIGINT while the dashboard is up).
		<-gctx.Done()
		program.Quit()
	}()

	return g.Wait()
}

// printHistory dumps the newest stored snapshots for one pool.
func printHistory(cfg *config.Config, pool string, log *logger.Logger) error {
	if cfg.PostgresURL == "" {
		return errors.New("-history requires postgres_url in the config")
	}

	store, err := postgres.NewStorage(cfg.PostgresURL, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := store.LatestPoolSnapshots(ctx, pool, historyLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no snapshots recorded for", pool)
		return nil
	}

	for _, row := range rows {
		fmt.Printf("%s  %-12s  price %.9f SOL  mcap %s  liq %s\n",
			row.TakenAt.Format(time.RFC3339), row.Label, row.Price,
			amm.FormatUSD(row.MarketCap), amm.FormatUSD(row.Liquidity))
	}
	return nil
}

// runHealthChecks periodically prunes dead RPC endpoints from rotation.
func runHealthChecks(ctx context.Context, client *solbc.Client, log *zap.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthy := client.HealthCheck()
			log.Debug("RPC health check done", zap.Int("healthy_endpoints", healthy))
		}
	}
}

func buildMonitorConfig(cfg *config.Config) monitor.Config {
	pools := make([]monitor.WatchedPool, 0, len(cfg.Pools))
	for _, p := range cfg.Pools {
		pools = append(pools, monitor.WatchedPool{
			Address: solana.MustPublicKeyFromBase58(p.Address),
			Label:   p.Label,
		})
	}

	positions := make([]monitor.WatchedPosition, 0, len(cfg.Positions))
	for _, p := range cfg.Positions {
		positions = append(positions, monitor.WatchedPosition{
			Pool: solana.MustPublicKeyFromBase58(p.Pool),
			Position: amm.Position{
				IsLong:     p.IsLong,
				Size:       p.Size,
				Collateral: p.Collateral,
				Leverage:   p.Leverage,
			},
		})
	}

	thresholds := monitor.DefaultAlertThresholds()
	thresholds.FundingPerDayPercent = cfg.Alerts.FundingPerDayPercent
	thresholds.PriceMovePercent = cfg.Alerts.PriceMovePercent

	return monitor.Config{
		Pools:     pools,
		Positions: positions,
		Interval:  time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		Alerts:    thresholds,
	}
}
