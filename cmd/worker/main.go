package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/ai"
	"github.com/mxfin-tools/tpv-analyzer/internal/archive"
	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/config"
	"github.com/mxfin-tools/tpv-analyzer/internal/jobs"
	"github.com/mxfin-tools/tpv-analyzer/internal/jobs/inmemory"
	"github.com/mxfin-tools/tpv-analyzer/internal/logger"
	"github.com/mxfin-tools/tpv-analyzer/internal/ocr"
	"github.com/mxfin-tools/tpv-analyzer/internal/pdftext"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
	"github.com/mxfin-tools/tpv-analyzer/internal/qr"
)

// Standalone worker process. It consumes from its own in-memory queue, so it
// only sees jobs published in-process; kept as the deployment shape for when
// the queue moves to Cloud Tasks or Pub/Sub.
func main() {
	cfg := config.Load()
	log := logger.New("worker", cfg.LogLevel, cfg.PrettyLogs)

	ctx := context.Background()

	runner, err := buildRunner(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build analysis pipeline")
	}

	var sink *archive.Sink
	if cfg.BigQueryProject != "" {
		bqClient, err := bigquery.NewClient(ctx, cfg.BigQueryProject)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery client")
		}
		defer bqClient.Close()
		sink = archive.NewSink(bqClient, cfg.BigQueryDataset)
	}

	jobStore := inmemory.NewStoreWithRetention(cfg.ResultRetention)
	jobQueue := inmemory.NewQueue(cfg.QueueBuffer, cfg.Workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Int("workers", cfg.Workers).Msg("Starting job workers")
		if err := jobQueue.Start(workerCtx, analysisHandler(runner, sink, log)); err != nil {
			log.Error().Err(err).Msg("Job workers stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Worker exited")
}

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

func analysisHandler(runner *pipeline.JobRunner, sink *archive.Sink, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		analysisJob, ok := job.(*jobs.AnalyzeStatementsJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		jlog := logger.WithJob(log, analysisJob.JobID)
		ctx = logger.WithContext(ctx, jlog)

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
		return err
	}
}
