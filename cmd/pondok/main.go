package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"pondok/internal/amqp"
	"pondok/internal/auth"
	"pondok/internal/config"
	apphttp "pondok/internal/http"
	"pondok/internal/state"
	"pondok/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production).
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var kv storage.KV
	switch cfg.StorageBackend {
	case "sqlite":
		sqliteKV, err := storage.NewSQLiteKV(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		kv = sqliteKV
		logger.Info("Initialized sqlite storage", "path", cfg.SQLiteDBPath)
	default:
		kv = storage.NewMemoryKV()
		logger.Info("Initialized memory storage")
	}
	defer kv.Close()

	opts := []state.Option{state.WithGenerateDebounce(cfg.GenerateDebounce)}

	// AMQP is optional; without it the report pipeline is disabled.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report sync", "error", err)
		} else {
			defer amqpClient.Close()
			opts = append(opts, state.WithPublisher(amqpClient))
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	appState := state.New(kv, opts...)
	defer appState.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := appState.Load(ctx); err != nil {
		logger.Error("Failed to load state", "error", err)
		os.Exit(1)
	}

	refresher := state.NewRefresher(appState, cfg.RefreshInterval)
	if err := refresher.Start(ctx); err != nil {
		logger.Error("Failed to start status refresher", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, appState, auth.NewService(kv))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting pondok server", "port", cfg.Port, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := refresher.Stop(shutdownCtx); err != nil {
			logger.Error("Refresher shutdown error", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
