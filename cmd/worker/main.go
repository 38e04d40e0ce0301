package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rghosh/clausewise/internal/bootstrap"
	"github.com/rghosh/clausewise/internal/config"
	"github.com/rghosh/clausewise/internal/core/domain"
	"github.com/rghosh/clausewise/internal/observability/logging"
	"github.com/rghosh/clausewise/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app.LLM.SetCallObserver(func(operation string, err error) {
		workerMetrics.RecordLLMCall("worker", operation, err)
	})
	app.AnalyzeUC.SetVerdictObserver(func(level domain.RiskLevel) {
		workerMetrics.RecordClauseVerdict("worker", string(level))
	})

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	analysisTimeout := time.Duration(cfg.AnalysisTimeoutSeconds) * time.Second

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeContractUploaded(ctx, func(handlerCtx context.Context, contractID string) error {
		analyzeCtx, cancel := context.WithTimeout(handlerCtx, analysisTimeout)
		defer cancel()

		start := time.Now()
		if contract, getErr := app.Repo.GetByID(analyzeCtx, contractID); getErr == nil {
			workerMetrics.ObserveQueueLag("worker", start.Sub(contract.CreatedAt))
		}

		workerMetrics.StartAnalysis()
		analyzeErr := app.AnalyzeUC.AnalyzeByID(analyzeCtx, contractID)
		workerMetrics.FinishAnalysis("worker", time.Since(start), analyzeErr)
		return analyzeErr
	})
	if err != nil {
		logger.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}
}
