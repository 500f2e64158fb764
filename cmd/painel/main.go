package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"painel/internal/amqp"
	"painel/internal/backend"
	"painel/internal/cache"
	appcli "painel/internal/cli"
	"painel/internal/dashboard"
	apphttp "painel/internal/http"
	"painel/internal/log"
)

func main() {
	appcli.LoadEnvFile()
	logger := appcli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := appcli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	sources, err := backend.NewFactory(logger).CreateSources(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create page sources", log.FieldError, err.Error(), log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	views := cache.NewLRUCache[dashboard.View](cfg.ViewCacheSize, cfg.ViewCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(views)
	if cfg.ViewCacheTTL > 0 {
		caches.StartCleanup(cfg.ViewCacheTTL)
	}

	opts := dashboard.Options{
		Thresholds: dashboard.Thresholds{
			ContractExpiryDays:       cfg.ContractExpiryDays,
			MaintenanceOverdueMonths: cfg.MaintenanceOverdueMonths,
		},
		Views:  views,
		Logger: logger,
	}

	// Refresh events are optional: without a broker the dashboard still works.
	var broker *amqp.Client
	if cfg.AMQPURL != "" {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRefreshQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, refresh events disabled", log.FieldError, err.Error())
			broker = nil
		} else {
			opts.Notifier = broker
		}
	}

	board := dashboard.NewBoard(sources, opts)
	srv := apphttp.NewServer(":"+cfg.Port, board, apphttp.Options{Logger: logger, Views: views})

	ctx, done := appcli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		caches.Stop()
		if broker != nil {
			_ = broker.Close()
		}
	})

	go func() {
		if err := board.RefreshAll(ctx); err != nil {
			logger.Warn("Some pages failed their first refresh", log.FieldError, err.Error())
		}
	}()

	if broker != nil {
		go func() {
			err := broker.ConsumeRefreshRequests(ctx, amqp.RefreshHandler(board, logger))
			if err != nil && ctx.Err() == nil {
				logger.Error("Refresh request consumer stopped", log.FieldError, err.Error())
			}
		}()
	}

	logger.Info("Starting painel server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	appcli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
