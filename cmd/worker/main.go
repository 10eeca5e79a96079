package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/config"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/jobs"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/jobs/inmemory"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/logger"
)

// Standalone scan worker. With the in-memory queue this shares a process
// with cmd/api in practice; the binary exists so a broker-backed queue can
// run consumers separately without touching the handler code.
func main() {
	log := logger.New("scan-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	opts := []engine.Option{
		engine.WithWorkers(cfg.Workers),
		engine.WithEnrichTimeout(cfg.EnrichTimeout),
		engine.WithLogger(log),
	}
	if mode := engine.EnrichMode(cfg.EnrichMode); mode != engine.EnrichOff {
		opts = append(opts, engine.WithEnricher(enrich.NewGemini(cfg.EnrichModel), mode))
	}
	scanner := engine.NewScanner(opts...)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.QueueWorkers, jobStore)

	log.Info().Msg("Starting worker service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := func(ctx context.Context, job jobs.Job) error {
		scanJob, ok := job.(*jobs.ScanBatchJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", scanJob.JobID).
			Int("messages", len(scanJob.Messages)).
			Msg("Processing scan job")

		mode := engine.EnrichOff
		if scanJob.Enrich {
			mode = scanner.Mode()
		}

		result, err := scanner.ScanWithMode(ctx, scanJob.Messages, scanJob.WindowStart, scanJob.WindowEnd, mode)
		if err != nil {
			log.Error().Err(err).Str("job_id", scanJob.JobID).Msg("Scan job failed")
			return err
		}

		scanJob.Result = result

		log.Info().
			Str("job_id", scanJob.JobID).
			Int("transactions", result.Window.TransactionCount).
			Str("total_credit", result.Window.TotalCredit.String()).
			Msg("Scan job completed")
		return nil
	}

	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Worker exited")
}
