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

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/ai"
	"github.com/mxfin-tools/tpv-analyzer/internal/api/handlers"
	"github.com/mxfin-tools/tpv-analyzer/internal/api/middleware"
	"github.com/mxfin-tools/tpv-analyzer/internal/archive"
	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/config"
	"github.com/mxfin-tools/tpv-analyzer/internal/gcsfetch"
	"github.com/mxfin-tools/tpv-analyzer/internal/jobs"
	"github.com/mxfin-tools/tpv-analyzer/internal/jobs/inmemory"
	"github.com/mxfin-tools/tpv-analyzer/internal/logger"
	"github.com/mxfin-tools/tpv-analyzer/internal/ocr"
	"github.com/mxfin-tools/tpv-analyzer/internal/pdftext"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
	"github.com/mxfin-tools/tpv-analyzer/internal/qr"
)

func main() {
	cfg := config.Load()
	log := logger.New("api", cfg.LogLevel, cfg.PrettyLogs)

	ctx := context.Background()

	runner, err := buildRunner(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build analysis pipeline")
	}

	// Job infrastructure. The queue runs in-process; multi-instance
	// deployments would swap in Cloud Tasks or Pub/Sub here.
	jobStore := inmemory.NewStoreWithRetention(cfg.ResultRetention)
	jobQueue := inmemory.NewQueue(cfg.QueueBuffer, cfg.Workers, jobStore)

	var sink *archive.Sink
	if cfg.BigQueryProject != "" {
		bqClient, err := bigquery.NewClient(ctx, cfg.BigQueryProject)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery client")
		}
		defer bqClient.Close()
		sink = archive.NewSink(bqClient, cfg.BigQueryDataset)
	} else {
		log.Warn().Msg("No BigQuery project configured - result archival disabled")
	}

	var fetcher *gcsfetch.Fetcher
	if storageClient, err := storage.NewClient(ctx); err == nil {
		defer storageClient.Close()
		fetcher = gcsfetch.New(storageClient)
	} else {
		log.Warn().Err(err).Msg("No storage credentials - gs:// submission disabled")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Int("workers", cfg.Workers).Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, analysisHandler(runner, sink, log)); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	jobsHandler := handlers.NewJobsHandler(jobStore, jobQueue, fetcher, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			jobsHandler.ListJobs(w, r)
		case http.MethodPost:
			jobsHandler.CreateJob(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		jobID, tail, _ := strings.Cut(rest, "/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		switch tail {
		case "":
			jobsHandler.GetJob(w, r, jobID)
		case "result":
			jobsHandler.GetResult(w, r, jobID)
		case "report":
			jobsHandler.GetReport(w, r, jobID)
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
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
				middleware.CORS(
					middleware.Auth(cfg.APIKey)(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting API server")
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

// buildRunner wires the analysis pipeline over its collaborators.
func buildRunner(ctx context.Context, cfg config.Config, log zerolog.Logger) (*pipeline.JobRunner, error) {
	client, err := ai.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	primary := ai.NewCoverProvider(client, ai.PrimaryCoverModel, ai.PromptDirect, log)
	secondary := ai.NewCoverProvider(client, ai.SecondaryCoverModel, ai.PromptChecklist, log)
	agent := ai.NewTransactionAgent(client, ai.AgentModel, log)

	pdf := pdftext.New()

	var ocrEngine pipeline.OCREngine
	if cfg.OCREndpoint != "" {
		ocrEngine = ocr.New(cfg.OCREndpoint, cfg.OCRKey)
	} else {
		log.Warn().Msg("No OCR endpoint configured - scanned documents will be rejected")
	}

	analyzer := pipeline.NewAnalyzer(
		banks.NewRegistry(),
		pdf, pdf,
		primary, secondary,
		agent,
		ocrEngine,
		qr.New(),
		cfg.Pipeline,
		log,
	)
	return pipeline.NewJobRunner(analyzer, cfg.Pipeline, log), nil
}

// analysisHandler adapts the job runner to the queue's handler signature and
// archives finished aggregates when a sink is configured.
func analysisHandler(runner *pipeline.JobRunner, sink *archive.Sink, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		analysisJob, ok := job.(*jobs.AnalyzeStatementsJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		jlog := logger.WithJob(log, analysisJob.JobID)
		ctx = logger.WithContext(ctx, jlog)

		jlog.Info().Int("documents", len(analysisJob.Documents)).Msg("Processing analysis job")

		agg, err := runner.Run(ctx, analysisJob.JobID, analysisJob.Documents)
		analysisJob.Result = &agg

		if sink != nil {
			errText := ""
			if err != nil {
				errText = err.Error()
			}
			if archiveErr := sink.ArchiveJob(ctx, agg, errText); archiveErr != nil {
				jlog.Error().Err(archiveErr).Msg("Failed to archive job result")
			}
		}

		if err != nil {
			jlog.Error().Err(err).Msg("Analysis job failed")
			return err
		}

		jlog.Info().
			Float64("total_deposits", agg.TotalDeposits).
			Bool("above_threshold", agg.AboveThreshold).
			Msg("Analysis job completed")
		return nil
	}
}
