package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrCoverStageUnavailable is the only job-level hard failure: the
// cover-page analysis stage could not run for any document in the job.
var ErrCoverStageUnavailable = errors.New("cover-page analysis unavailable for every document")

// JobRunner is the top-level controller. It splits a job's documents into
// digital and scanned, drives the per-document pipelines with per-unit
// failure isolation, applies the OCR gate and group timeout, and assembles
// the aggregate.
type JobRunner struct {
	analyzer *Analyzer
	cfg      Config
	log      zerolog.Logger
}

// NewJobRunner wires a runner over a configured analyzer.
func NewJobRunner(analyzer *Analyzer, cfg Config, log zerolog.Logger) *JobRunner {
	return &JobRunner{analyzer: analyzer, cfg: cfg, log: log}
}

// docState is the per-document bookkeeping between the splitting stage and
// the extraction stage.
type docState struct {
	doc     RawDocument
	pages   PageText
	scanned bool
	loadErr error
}

// Run executes the whole job. The aggregate always has one slot per input
// document, index-preserving, with error text populated per failed unit; the
// returned error is non-nil only for the job-level hard failure.
func (r *JobRunner) Run(ctx context.Context, jobID string, docs []RawDocument) (JobAggregate, error) {
	agg := JobAggregate{
		JobID:     jobID,
		Documents: make([]DocumentResult, len(docs)),
	}
	if len(docs) == 0 {
		return agg, nil
	}

	// Stage 1: extract page text once per document and split digital from
	// scanned. Input defects (encrypted, unreadable) stay on their slot.
	states := make([]docState, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc RawDocument) {
			defer wg.Done()
			pages, scanned, err := r.analyzer.LoadPages(ctx, doc)
			states[i] = docState{doc: doc, pages: pages, scanned: scanned, loadErr: err}
		}(i, doc)
	}
	wg.Wait()

	// Stage 2: digital documents run the full pipeline in parallel,
	// one result slot each.
	var digital int
	wg = sync.WaitGroup{}
	for i := range states {
		st := &states[i]
		if st.loadErr != nil {
			agg.Documents[i] = DocumentResult{
				Filename: st.doc.Filename,
				Error:    st.loadErr.Error(),
			}
			continue
		}
		if st.scanned {
			continue
		}
		digital++
		wg.Add(1)
		go func(i int, st *docState) {
			defer wg.Done()
			agg.Documents[i] = r.analyzer.AnalyzeDocument(ctx, st.doc, st.pages)
		}(i, st)
	}
	wg.Wait()

	// The job only hard-fails when cover analysis could not run for any
	// document at all, which points at a systemic provider outage.
	if digital > 0 && r.allCoversFailed(agg.Documents, states) {
		return agg, ErrCoverStageUnavailable
	}

	// The OCR gate and the threshold flag are decided on the digital
	// documents alone; scanned deposits are not known yet.
	for _, res := range agg.Documents {
		agg.TotalDeposits += res.Deposits()
	}
	agg.AboveThreshold = agg.TotalDeposits > r.cfg.DepositThreshold

	// Stage 3: scanned documents go through OCR only when the job is
	// financially significant and small enough, under one group deadline.
	r.runScanned(ctx, &agg, states)

	// Deposits recognized through OCR still count toward the job total.
	agg.TotalDeposits = 0
	for _, res := range agg.Documents {
		agg.TotalDeposits += res.Deposits()
	}

	return agg, nil
}

// runScanned applies the OCR gate and, when it passes, fans the scanned
// documents out under a shared timeout. Completed units keep their results;
// units cut off by the deadline are marked with the timeout error.
func (r *JobRunner) runScanned(ctx context.Context, agg *JobAggregate, states []docState) {
	var scannedIdx []int
	for i, st := range states {
		if st.loadErr == nil && st.scanned {
			scannedIdx = append(scannedIdx, i)
		}
	}
	if len(scannedIdx) == 0 {
		return
	}

	gateErr := error(nil)
	switch {
	case len(scannedIdx) > r.cfg.MaxScannedDocs:
		gateErr = ErrTooManyScanned
	case agg.TotalDeposits <= r.cfg.DepositThreshold:
		gateErr = ErrBelowThreshold
	}
	if gateErr != nil {
		for _, i := range scannedIdx {
			agg.Documents[i] = DocumentResult{
				Filename: states[i].doc.Filename,
				Scanned:  true,
				Error:    gateErr.Error(),
			}
		}
		r.log.Info().Int("scanned", len(scannedIdx)).Err(gateErr).Msg("OCR path skipped")
		return
	}

	ocrCtx, cancel := context.WithTimeout(ctx, r.cfg.OCRTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, i := range scannedIdx {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := states[i]
			agg.Documents[i] = r.analyzer.AnalyzeScannedDocument(ocrCtx, st.doc, len(st.pages))
		}(i)
	}
	wg.Wait()
}

// allCoversFailed reports whether every digital document failed with the
// cover-analysis failure signature.
func (r *JobRunner) allCoversFailed(results []DocumentResult, states []docState) bool {
	any := false
	for i, st := range states {
		if st.loadErr != nil || st.scanned {
			continue
		}
		any = true
		if !strings.Contains(results[i].Error, "cover") {
			return false
		}
	}
	return any
}

// ExpandInputs flattens an upload set into individual PDF documents: PDFs
// pass through, ZIP archives are expanded, anything else is an input defect
// on that slot handled by the caller.
func ExpandInputs(docs []RawDocument) ([]RawDocument, error) {
	out := make([]RawDocument, 0, len(docs))
	for _, doc := range docs {
		expanded, err := expandOne(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Filename, err)
		}
		out = append(out, expanded...)
	}
	if len(out) == 0 {
		return nil, errors.New("no pdf documents in upload")
	}
	return out, nil
}
