// Radiola Sync — daemon ярусного планировщика.
//
// Внешний триггер (cron с секундами) вызывает каждый ярус с его
// периодичностью; сам Runner о wall-clock не знает. Разные ярусы
// могут пересекаться по времени; одинаковые — эксклюзивны через
// межпроцессные блокировки, поэтому daemon можно запускать в
// нескольких экземплярах.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/Radiola/internal/app"
	"github.com/shaiso/Radiola/internal/domain"
	"github.com/shaiso/Radiola/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting radiola-sync")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env, err := app.NewEnv(ctx, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer env.Close()
	logger.Info("database connected")

	runner, err := env.Runner(ctx)
	if err != nil {
		logger.Error("failed to build runner", "error", err)
		os.Exit(1)
	}

	// Триггер ярусов: один cron-вызов — один RunTier.
	trigger := cron.New(cron.WithSeconds())
	for _, tier := range domain.Tiers {
		tier := tier
		_, err := trigger.AddFunc(tier.CronSpec(), func() {
			if err := runner.RunTier(ctx, tier, false); err != nil {
				logger.Error("tier run failed", "tier", tier.String(), "error", err)
			}
		})
		if err != nil {
			logger.Error("failed to schedule tier", "tier", tier.String(), "error", err)
			os.Exit(1)
		}
	}
	trigger.Start()
	defer trigger.Stop()
	logger.Info("sync tiers scheduled", "tiers", len(domain.Tiers))

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8090"
	if v := os.Getenv("SYNC_PORT"); v != "" {
		port = ":" + v
	}

	server := &http.Server{Addr: port, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	logger.Info("listening", "addr", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}

	logger.Info("radiola-sync stopped")
}
