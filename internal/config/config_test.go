package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Pipeline.ChunkSize != 4 || cfg.Pipeline.ChunkOverlap != 1 {
		t.Errorf("chunking = %d/%d, want 4/1", cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	}
	if cfg.Pipeline.DepositThreshold != 250000.0 {
		t.Errorf("DepositThreshold = %v", cfg.Pipeline.DepositThreshold)
	}
	if cfg.ResultRetention != 24*time.Hour {
		t.Errorf("ResultRetention = %v", cfg.ResultRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DEPOSIT_THRESHOLD", "100000")
	t.Setenv("MAX_SCANNED_DOCS", "2")
	t.Setenv("OCR_TIMEOUT", "90s")
	t.Setenv("PRETTY_LOGS", "true")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.Pipeline.DepositThreshold != 100000.0 {
		t.Errorf("DepositThreshold = %v", cfg.Pipeline.DepositThreshold)
	}
	if cfg.Pipeline.MaxScannedDocs != 2 {
		t.Errorf("MaxScannedDocs = %d", cfg.Pipeline.MaxScannedDocs)
	}
	if cfg.Pipeline.OCRTimeout != 90*time.Second {
		t.Errorf("OCRTimeout = %v", cfg.Pipeline.OCRTimeout)
	}
	if !cfg.PrettyLogs {
		t.Error("PrettyLogs not applied")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DEPOSIT_THRESHOLD", "mucho")
	t.Setenv("QUEUE_WORKERS", "dos")

	cfg := Load()

	if cfg.Pipeline.DepositThreshold != 250000.0 {
		t.Errorf("malformed threshold should fall back, got %v", cfg.Pipeline.DepositThreshold)
	}
	if cfg.Workers != 2 {
		t.Errorf("malformed workers should fall back, got %d", cfg.Workers)
	}
}
