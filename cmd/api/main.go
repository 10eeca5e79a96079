package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/api/handlers"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/api/middleware"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/config"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/jobs"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/jobs/inmemory"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/logger"
)

func main() {
	log := logger.New("scan-api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	scanner := newScanner(cfg, log)

	ctx := context.Background()

	// Job infrastructure for async scans.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.QueueWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := newScanJobHandler(scanner, log)

	go func() {
		log.Info().Msg("Starting scan job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	scanHandler := handlers.NewScanHandler(scanner, jobQueue, cfg.BatchCap, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/scan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			scanHandler.Scan(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scan/async", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			scanHandler.ScanAsync(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("enrich_mode", cfg.EnrichMode).Msg("Starting scan API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// newScanner wires the configured enrichment mode into a scanner.
func newScanner(cfg *config.Config, log zerolog.Logger) *engine.Scanner {
	opts := []engine.Option{
		engine.WithWorkers(cfg.Workers),
		engine.WithEnrichTimeout(cfg.EnrichTimeout),
		engine.WithLogger(log),
	}
	if mode := engine.EnrichMode(cfg.EnrichMode); mode != engine.EnrichOff {
		opts = append(opts, engine.WithEnricher(enrich.NewGemini(cfg.EnrichModel), mode))
	}
	return engine.NewScanner(opts...)
}

// newScanJobHandler processes async scan jobs with the shared scanner and
// stores the result on the job for the status endpoint to serve.
func newScanJobHandler(scanner *engine.Scanner, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
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
			Msg("Scan job completed")
		return nil
	}
}
