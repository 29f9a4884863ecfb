package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-invoice-ledger/internal/config"
	"github.com/diewo77/go-invoice-ledger/internal/ledger"
	"github.com/diewo77/go-invoice-ledger/internal/logger"
	"github.com/diewo77/go-invoice-ledger/internal/pdf"
	"github.com/diewo77/go-invoice-ledger/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	ldg, err := ledger.FromConfig(cfg, zl)
	if err != nil {
		zl.Fatal("ledger setup failed", zap.String("backend", cfg.Ledger.Backend), zap.Error(err))
	}
	svc := services.NewInvoiceService(pdf.FromConfig(cfg.Seller), ldg, zl)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(svc, zl),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("ledger", cfg.Ledger.Backend),
			zap.Bool("dev", cfg.App.Dev),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutdown signal received")

	// Ledger writes may take up to LEDGER_TIMEOUT; let them finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
	zl.Info("server stopped gracefully")
}
