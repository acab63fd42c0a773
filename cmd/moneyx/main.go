package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"moneyx/internal/backend"
	"moneyx/internal/cli"
	"moneyx/internal/config"
	apphttp "moneyx/internal/http"
	"moneyx/internal/ledger"
	"moneyx/internal/log"
	"moneyx/internal/services"
	"moneyx/internal/session"
	"moneyx/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting moneyx", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("moneyx stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("moneyx shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	storeOpts := []store.Option{store.WithLogger(logger)}
	if be.Persister != nil {
		storeOpts = append(storeOpts, store.WithPersister(be.Persister))
	}
	st := store.New(storeOpts...)

	sessions := session.NewManager(logger)
	svc := ledger.New(st, sessions,
		ledger.WithSink(be.Sink),
		ledger.WithLogger(logger),
		ledger.WithAlertThresholds(cfg.LowBalanceThreshold, cfg.LargeTransactionThreshold),
	)
	sessions.OnLogin(backend.LoginHook(st, be.Loader, cfg.DataDirectory, logger))
	sessions.OnLogout(svc.Reset)

	if cfg.AutoLogin {
		if err := sessions.Login(ctx, cfg.DefaultUserID); err != nil {
			return err
		}
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               cfg.Addr(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		IdempotencyTTL:     cfg.IdempotencyTTL,
	}, svc, st, sessions,
		apphttp.WithLogger(logger),
		apphttp.WithReadiness(be.Ready),
	)
	rollover := services.NewRecurringProcessor(st, svc, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return rollover.Run(gctx, cfg.BillRolloverInterval, time.Now)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
