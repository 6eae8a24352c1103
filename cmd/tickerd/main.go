package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/coin-ticker/internal/clock"
	"github.com/rickgao/coin-ticker/internal/config"
	"github.com/rickgao/coin-ticker/internal/database"
	"github.com/rickgao/coin-ticker/internal/feed"
	"github.com/rickgao/coin-ticker/internal/history"
	"github.com/rickgao/coin-ticker/internal/hub"
	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/server"
	"github.com/rickgao/coin-ticker/internal/ticker"
	"github.com/rickgao/coin-ticker/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults are used when empty)")
	envFile := flag.String("env", ".env", "optional .env file loaded before the config")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tickerd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := run(*configPath, *envFile, logger); err != nil {
		logger.Error("tickerd failed", "error", err)
		os.Exit(1)
	}

	logger.Info("tickerd stopped")
}

func run(configPath, envFile string, logger *slog.Logger) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"feed_url", cfg.Feed.URL,
		"currency", cfg.Feed.Currency,
		"interval", cfg.Feed.Interval,
		"history", cfg.Database.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.New(hub.DefaultConfig(), logger)
	observers := []program.Observer{h}
	serverOpts := []server.Option{server.WithLogger(logger)}

	var (
		pool   *pgxpool.Pool
		writer *history.Writer
	)
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		writer = history.NewWriter(history.Config{
			BatchSize:     cfg.History.BatchSize,
			FlushInterval: cfg.History.FlushInterval,
			BufferSize:    cfg.History.BufferSize,
		}, history.NewPGStore(pool), logger)
		// Detached from the signal context so the final flush in Stop can still write.
		if err := writer.Start(context.Background()); err != nil {
			return fmt.Errorf("start history writer: %w", err)
		}

		observers = append(observers, writer)
		serverOpts = append(serverOpts, server.WithHistory(writer), server.WithDatabase(pool))
		logger.Info("database connected")
	}

	client := feed.NewClient(cfg.Feed.URL,
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithLogger(logger),
	)

	tk := ticker.New(
		ticker.WithCurrency(cfg.Feed.Currency),
		ticker.WithInterval(cfg.Feed.Interval),
		ticker.WithLogger(logger),
	)

	prog := program.New(program.Config{
		FetchTimeout: cfg.Feed.Timeout,
		Seed:         cfg.Render.Seed,
	}, tk, client, clock.Real{}, logger, observers...)

	if err := prog.Start(ctx); err != nil {
		return fmt.Errorf("start program: %w", err)
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     server.New(prog, h, serverOpts...).Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := prog.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop program: %w", err))
		}
		h.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
		if writer != nil {
			if err := writer.Stop(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("stop history writer: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	logger.Info("tickerd running",
		"instance_id", cfg.Instance.ID,
		"url", fmt.Sprintf("http://localhost:%d/", cfg.Server.Port),
	)

	return g.Wait()
}

func loadConfig(path string) (*config.TickerConfig, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadAndValidate(path)
}
