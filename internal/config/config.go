// Package config loads service configuration from the environment, with a
// .env file honored for local runs.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

// Config is the full service configuration. Zero values fall back to the
// documented defaults, so a bare environment still boots a working local
// instance (minus the cloud integrations).
type Config struct {
	// HTTPAddr is the API listen address.
	HTTPAddr string

	// APIKey protects the HTTP surface when non-empty.
	APIKey string

	// LogLevel and PrettyLogs shape the zerolog output.
	LogLevel   string
	PrettyLogs bool

	// OCREndpoint and OCRKey configure the Azure Computer Vision client.
	// Empty endpoint disables the OCR path.
	OCREndpoint string
	OCRKey      string

	// BigQueryProject and BigQueryDataset configure result archival. Empty
	// project disables archival.
	BigQueryProject string
	BigQueryDataset string

	// QueueBuffer and Workers size the in-memory job queue.
	QueueBuffer int
	Workers     int

	// ResultRetention is how long finished job results stay readable.
	ResultRetention time.Duration

	// Pipeline carries the analysis parameters.
	Pipeline pipeline.Config
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	pipe := pipeline.DefaultConfig()
	pipe.MaxScannedDocs = envInt("MAX_SCANNED_DOCS", pipe.MaxScannedDocs)
	pipe.DepositThreshold = envFloat("DEPOSIT_THRESHOLD", pipe.DepositThreshold)
	pipe.OCRTimeout = envDuration("OCR_TIMEOUT", pipe.OCRTimeout)

	return Config{
		HTTPAddr:        envStr("HTTP_ADDR", ":8080"),
		APIKey:          os.Getenv("API_KEY"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		PrettyLogs:      envBool("PRETTY_LOGS", false),
		OCREndpoint:     os.Getenv("AZURE_CV_ENDPOINT"),
		OCRKey:          os.Getenv("AZURE_CV_KEY"),
		BigQueryProject: os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset: envStr("BIGQUERY_DATASET", "analysis"),
		QueueBuffer:     envInt("QUEUE_BUFFER", 32),
		Workers:         envInt("QUEUE_WORKERS", 2),
		ResultRetention: envDuration("RESULT_RETENTION", 24*time.Hour),
		Pipeline:        pipe,
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
