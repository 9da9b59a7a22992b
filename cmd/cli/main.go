package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/ai"
	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/config"
	"github.com/mxfin-tools/tpv-analyzer/internal/gcsfetch"
	"github.com/mxfin-tools/tpv-analyzer/internal/logger"
	"github.com/mxfin-tools/tpv-analyzer/internal/ocr"
	"github.com/mxfin-tools/tpv-analyzer/internal/pdftext"
	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
	"github.com/mxfin-tools/tpv-analyzer/internal/qr"
	"github.com/mxfin-tools/tpv-analyzer/internal/report"
)

func main() {
	cfg := config.Load()
	log := logger.New("cli", cfg.LogLevel, true)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(cfg, log)
	case "fetch":
		runFetch(cfg, log)
	case "detect":
		runDetect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("TPV Analyzer CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Analyze local statement PDFs or ZIP archives")
	fmt.Println("  fetch     Fetch statements from GCS and analyze them")
	fmt.Println("  detect    Detect which bank issued a statement PDF")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	out := fs.String("out", "", "Write an XLSX report to this path")
	asJSON := fs.Bool("json", false, "Print the full result as JSON")
	fs.Parse(os.Args[2:])

	if fs.NArg() == 0 {
		log.Fatal().Msg("Usage: cli analyze [-out report.xlsx] [-json] FILE...")
	}

	var docs []pipeline.RawDocument
	for _, path := range fs.Args() {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read input")
		}
		docs = append(docs, pipeline.RawDocument{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	analyzeAndReport(cfg, log, docs, *out, *asJSON)
}

func runFetch(cfg config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of a statement PDF, ZIP, or prefix ending in /")
	out := fs.String("out", "", "Write an XLSX report to this path")
	asJSON := fs.Bool("json", false, "Print the full result as JSON")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer storageClient.Close()
	fetcher := gcsfetch.New(storageClient)

	var docs []pipeline.RawDocument
	if strings.HasSuffix(*gcsURI, "/") {
		docs, err = fetcher.FetchPrefix(ctx, *gcsURI)
	} else {
		var doc pipeline.RawDocument
		doc, err = fetcher.FetchDocument(ctx, *gcsURI)
		docs = []pipeline.RawDocument{doc}
	}
	if err != nil {
		log.Fatal().Err(err).Str("gcs_uri", *gcsURI).Msg("Fetch failed")
	}

	analyzeAndReport(cfg, log, docs, *out, *asJSON)
}

func runDetect(log zerolog.Logger) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	file := fs.String("file", "", "Path to a statement PDF")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pages, err := pdftext.New().PageText(ctx, content, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract text")
	}

	bankID, err := banks.NewRegistry().Detect(pages.Joined())
	if err != nil {
		log.Fatal().Err(err).Msg("No known bank detected")
	}

	fmt.Printf("Bank: %s\n", bankID)
}

func analyzeAndReport(cfg config.Config, log zerolog.Logger, docs []pipeline.RawDocument, out string, asJSON bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	expanded, err := pipeline.ExpandInputs(docs)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input")
	}

	runner, err := buildRunner(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build analysis pipeline")
	}

	jobID := uuid.NewString()
	agg, err := runner.Run(ctx, jobID, expanded)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(agg); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode result")
		}
	} else {
		printSummary(agg)
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create report file")
		}
		defer f.Close()
		if err := report.Write(f, agg); err != nil {
			log.Fatal().Err(err).Msg("Failed to write report")
		}
		fmt.Printf("Report written to %s\n", out)
	}
}

func printSummary(agg pipeline.JobAggregate) {
	fmt.Printf("\n=== Analysis %s ===\n", agg.JobID)
	for _, doc := range agg.Documents {
		fmt.Printf("\n%s\n", doc.Filename)
		if doc.Error != "" {
			fmt.Printf("  error: %s\n", doc.Error)
			continue
		}
		for _, acc := range doc.Accounts {
			fmt.Printf("  bank: %s\n", acc.Cover.Bank)
			if cliente, ok := acc.Cover.TextField("cliente"); ok {
				fmt.Printf("  client: %s\n", cliente)
			}
			if dep, ok := acc.Cover.Amount("depositos"); ok {
				fmt.Printf("  deposits: %.2f\n", dep)
			}
			fmt.Printf("  movements: %d\n", len(acc.Transactions))
		}
	}
	fmt.Printf("\nTotal deposits: %.2f\n", agg.TotalDeposits)
	fmt.Printf("Above threshold: %v\n", agg.AboveThreshold)
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
