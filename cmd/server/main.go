package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Simplici0/houtcalc/internal/config"
	"github.com/Simplici0/houtcalc/internal/db"
	"github.com/Simplici0/houtcalc/internal/logging"
	"github.com/Simplici0/houtcalc/internal/metrics"
	"github.com/Simplici0/houtcalc/internal/migrations"
	"github.com/Simplici0/houtcalc/internal/pricetable"
	"github.com/Simplici0/houtcalc/internal/seed"
)

func main() {
	cfg, warnings := config.Load()

	logger := logging.Must(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDev(),
		Service:     "houtcalc",
	})
	defer func() { _ = logger.Sync() }()
	for _, w := range warnings {
		logger.Warn("config", zap.String("warning", w))
	}

	ctx := context.Background()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, migrations.Source(cfg.MigrationsDir)); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}
	stats, err := seed.Run(ctx, database, seed.Defaults())
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	if stats.Inserts > 0 {
		logger.Info("seeded database", zap.Int("inserts", stats.Inserts))
	}

	live := pricetable.NewLive(pricetable.NewStore(database))
	if err := live.Reload(ctx); err != nil {
		logger.Fatal("failed to load price table", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &server{
		prices:         live,
		logger:         logger,
		metrics:        metrics.NewRecorder(reg),
		gatherer:       reg,
		maxUploadBytes: cfg.MaxUploadBytes(),
		admin:          newAdminGuard(cfg.AdminToken, cfg.IsDev()),
	}
	if !srv.admin.enabled() {
		logger.Warn("ADMIN_TOKEN not set; price administration is disabled")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
