package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/application/delivery"
	"github.com/erpbridge/backend/internal/domain/allocation"
	"github.com/erpbridge/backend/internal/domain/warehouse"
	"github.com/erpbridge/backend/internal/infrastructure/cache"
	"github.com/erpbridge/backend/internal/infrastructure/config"
	"github.com/erpbridge/backend/internal/infrastructure/erpnext"
	"github.com/erpbridge/backend/internal/infrastructure/logger"
	"github.com/erpbridge/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	erpClient, err := erpnext.NewClient(&erpnext.Config{
		BaseURL:        cfg.ERPNext.BaseURL,
		APIKey:         cfg.ERPNext.APIKey,
		APISecret:      cfg.ERPNext.APISecret,
		TimeoutSeconds: cfg.ERPNext.TimeoutSeconds,
	}, log)
	if err != nil {
		return fmt.Errorf("init erpnext client: %w", err)
	}

	existenceCache, err := cache.NewWarehouseCacheFactory(
		cfg.Redis, cfg.Cache.TTL, cache.WithLogger(log),
	).CreateCache()
	if err != nil {
		return fmt.Errorf("init warehouse cache: %w", err)
	}

	provisioner := warehouse.NewProvisioner(erpClient, existenceCache, log)
	deliveryService := delivery.NewService(
		allocation.NewResolver(erpClient),
		allocation.NewEngine(),
		erpClient,
		provisioner,
		erpClient,
		log,
	)

	engine := router.New(router.Dependencies{
		Config:      cfg,
		Logger:      log,
		Delivery:    deliveryService,
		Provisioner: provisioner,
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("stopped")
	return nil
}
