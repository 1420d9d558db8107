package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/nezhnik/omonete-sub001/internal/config"
	"github.com/nezhnik/omonete-sub001/internal/export"
	"github.com/nezhnik/omonete-sub001/internal/jobs"
	"github.com/nezhnik/omonete-sub001/internal/normalize"
	"github.com/nezhnik/omonete-sub001/internal/ops"
	"github.com/nezhnik/omonete-sub001/internal/publisher"
	"github.com/nezhnik/omonete-sub001/internal/store"
	"github.com/nezhnik/omonete-sub001/pkg/logger"
	"github.com/nezhnik/omonete-sub001/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()
	cfg.ServiceName = "catalogd"

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [catalogd]...")

	if err := cfg.Validate(); err != nil {
		logg.Fatalw("invalid configuration", "error", err)
	}
	logg.Info("connecting to DSN: ", utils.MaskDSN(cfg.DatabaseURL))

	// --- Store ---
	st, err := store.New(ctx, cfg.DatabaseURL, logger.L())
	if err != nil {
		logg.Fatalw("failed to init store", "error", err)
	}
	defer st.Close()

	// --- NATS publisher (optional) ---
	var pub *publisher.Publisher
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err = publisher.New(nc, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to init publisher", "error", err)
		}
		defer pub.Close()
	}

	// --- Redis page cache (optional) ---
	var cache *export.PageCache
	if cfg.RedisAddr != "" {
		cache, err = export.NewPageCache(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, 24*time.Hour, logger.L())
		if err != nil {
			logg.Fatalw("failed to init page cache", "error", err)
		}
		defer cache.Close()
	}

	// --- Pipeline components ---
	runner := normalize.NewRunner(st, logger.L())
	serializer := export.NewSerializer(st, cfg.PageLimit, cfg.PageLimitMax, logger.L())
	writer := export.NewWriter(serializer, cfg.ExportDir, logger.L())

	cycle := jobs.NewCycleRunner(
		logger.L(), st, runner, serializer, writer, cache, pub,
		cfg.ChartArtifact, cfg.PageLimit, cfg.CycleInterval, cfg.CycleOnStart,
	)
	go cycle.Start(ctx)
	defer cycle.Stop()

	// --- Ops HTTP surface (health, metrics) ---
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	ops.RegisterRoutes(app, st, pub)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Errorw("ops server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down [catalogd]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Errorw("ops server shutdown failed", "error", err)
	}
}
