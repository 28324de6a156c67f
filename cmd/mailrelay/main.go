package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solarhub/internal/config"
	"solarhub/internal/email/noop"
	"solarhub/internal/email/ses"
	"solarhub/internal/logger"
	"solarhub/internal/mailrelay"
	"solarhub/internal/port"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		zl.Info("email sender: ses", zap.String("region", cfg.Email.Region))
	default:
		sender = noop.NewNoopSender(cfg.Email.FrontendURL, zl)
		zl.Info("email sender: noop")
	}

	if len(cfg.Relay.Recipients) == 0 {
		zl.Warn("no relay recipients configured; every send will fail")
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Relay.RateLimitPerSec), cfg.Relay.RateBurst)
	h := mailrelay.NewHandler(sender, cfg.Relay.Recipients, limiter, zl)

	srv := &http.Server{
		Addr:         cfg.Relay.Port,
		Handler:      mailrelay.NewRouter(h, zl),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("mail relay starting", zap.String("addr", cfg.Relay.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("relay failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("relay shutdown failed", zap.Error(err))
	}
	zl.Info("mail relay stopped")
	return nil
}
