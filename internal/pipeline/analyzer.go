package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
	"github.com/mxfin-tools/tpv-analyzer/internal/reconcile"
)

// Config carries the pipeline's fixed operating parameters, injected at
// startup and never mutated afterwards.
type Config struct {
	// ChunkSize and ChunkOverlap shape the sliding window over
	// transaction-bearing pages.
	ChunkSize    int
	ChunkOverlap int

	// MaxScannedDocs is the per-job ceiling on scanned documents eligible
	// for the OCR path.
	MaxScannedDocs int

	// DepositThreshold is the job-wide reconciled-deposit total a job must
	// exceed before any scanned document is sent through OCR.
	DepositThreshold float64

	// OCRTimeout is the wall-clock budget for the whole OCR task group.
	OCRTimeout time.Duration

	// MinPageTextChars is the per-page character count under which a page
	// counts as textless when splitting digital from scanned documents.
	MinPageTextChars int
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		ChunkSize:        4,
		ChunkOverlap:     1,
		MaxScannedDocs:   4,
		DepositThreshold: 250000.0,
		OCRTimeout:       3 * time.Minute,
		MinPageTextChars: 60,
	}
}

// Analyzer drives the per-document pipeline: bank detection, the regex and
// dual-model cover paths, reconciliation, account-section planning, chunked
// agent extraction, deduplication and classification.
type Analyzer struct {
	reg        *banks.Registry
	fields     *extract.Extractor
	classifier *Classifier
	agents     *AgentOrchestrator

	text      TextExtractor
	raster    Rasterizer
	primary   CoverAnalyzer
	secondary CoverAnalyzer
	ocrEngine OCREngine
	qr        QRDecoder

	cfg Config
	log zerolog.Logger
}

// NewAnalyzer wires an analyzer over its collaborators. raster, ocr and qr
// may be nil; the cover analyzers then work from text alone, the OCR path
// reports itself unconfigured, and no QR probe runs.
func NewAnalyzer(
	reg *banks.Registry,
	text TextExtractor,
	raster Rasterizer,
	primary, secondary CoverAnalyzer,
	agent ChunkAgent,
	ocr OCREngine,
	qr QRDecoder,
	cfg Config,
	log zerolog.Logger,
) *Analyzer {
	return &Analyzer{
		reg:        reg,
		fields:     extract.NewExtractor(reg),
		classifier: NewClassifier(),
		agents:     NewAgentOrchestrator(agent, log),
		text:       text,
		raster:     raster,
		primary:    primary,
		secondary:  secondary,
		ocrEngine:  ocr,
		qr:         qr,
		cfg:        cfg,
		log:        log,
	}
}

// LoadPages runs the text-extraction collaborator once for a document and
// reports whether the document is scanned (no page carries usable text).
func (a *Analyzer) LoadPages(ctx context.Context, doc RawDocument) (PageText, bool, error) {
	pages, err := a.text.PageText(ctx, doc.Content, 0)
	if err != nil {
		return nil, false, err
	}
	if len(pages) == 0 {
		return nil, false, ErrEmptyDocument
	}

	scanned := true
	for _, txt := range pages {
		if len(strings.TrimSpace(txt)) >= a.cfg.MinPageTextChars {
			scanned = false
			break
		}
	}
	return pages, scanned, nil
}

// AnalyzeDocument runs the full digital pipeline over already-extracted page
// text. Every failure is folded into the DocumentResult; the only errors that
// escape are a cancelled context.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc RawDocument, pages PageText) DocumentResult {
	result := DocumentResult{Filename: doc.Filename}

	fullText := pages.Joined()
	bankID, err := a.reg.Detect(fullText)
	if err != nil {
		result.Error = fmt.Sprintf("%s: %v", doc.Filename, err)
		return result
	}
	profile, ok := a.reg.Profile(bankID)
	if !ok {
		result.Error = fmt.Sprintf("%v: %s", extract.ErrNoBankConfig, bankID)
		return result
	}

	pageCount := len(pages)
	coverPages := CoverPages(profile, pageCount)
	docCover, coverErr := a.analyzeCover(ctx, doc, bankID, coverPages, pages, true)
	if coverErr != nil {
		result.Error = fmt.Sprintf("cover analysis: %v", coverErr)
		return result
	}

	cuts := DetectAccountCuts(profile, pages)
	sections := PlanSections(pageCount, cuts)

	for i, section := range sections {
		cover := docCover
		if i > 0 {
			// Metadata for later sections is re-derived through the model
			// reconciliation path, scoped to the section boundary pages;
			// the bank id is copied from the document-level detection.
			metaCover, err := a.analyzeCover(ctx, doc, bankID, MetadataPages(section), pages, false)
			if err != nil {
				result.Accounts = append(result.Accounts, ExtractionResult{
					Section: section,
					Cover:   extract.NewCoverData(bankID),
					Error:   fmt.Sprintf("account metadata: %v", err),
				})
				continue
			}
			cover = metaCover
		}
		result.Accounts = append(result.Accounts, a.analyzeSection(ctx, bankID, profile, section, pages, cover))
	}
	return result
}

// analyzeCover runs the regex extractor and the two independent model
// providers over the given pages and reconciles the three outputs. The two
// model calls run concurrently; a transport failure on either side degrades
// to an empty field set from that side. Both sides failing is an
// external-service defect surfaced to the caller.
func (a *Analyzer) analyzeCover(ctx context.Context, doc RawDocument, bankID string, coverPages []int, pages PageText, probeQR bool) (extract.CoverData, error) {
	coverText := pages.JoinPages(coverPages)

	regexCover, err := a.fields.Extract(bankID, coverText)
	if err != nil {
		return extract.CoverData{}, err
	}

	var images [][]byte
	if a.raster != nil {
		images, err = a.raster.RenderPages(ctx, doc.Content, coverPages)
		if err != nil {
			a.log.Warn().Err(err).Str("file", doc.Filename).Msg("Cover rasterization failed, model providers get text only")
			images = nil
		}
	}

	primaryOut, primaryErr := extract.NewCoverData(bankID), error(nil)
	secondaryOut, secondaryErr := extract.NewCoverData(bankID), error(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		primaryOut, primaryErr = a.primary.AnalyzeCover(ctx, bankID, images, coverText)
	}()
	go func() {
		defer wg.Done()
		secondaryOut, secondaryErr = a.secondary.AnalyzeCover(ctx, bankID, images, coverText)
	}()
	wg.Wait()

	if primaryErr != nil && secondaryErr != nil {
		return extract.CoverData{}, fmt.Errorf("both cover providers failed: %v; %v", primaryErr, secondaryErr)
	}
	if primaryErr != nil {
		a.log.Warn().Err(primaryErr).Str("file", doc.Filename).Msg("Primary cover provider failed")
		primaryOut = extract.NewCoverData(bankID)
	}
	if secondaryErr != nil {
		a.log.Warn().Err(secondaryErr).Str("file", doc.Filename).Msg("Secondary cover provider failed")
		secondaryOut = extract.NewCoverData(bankID)
	}

	modelCover := reconcile.Merge(primaryOut, secondaryOut)
	cover := reconcile.Merge(regexCover, modelCover)
	cover.Bank = bankID

	if probeQR && a.qr != nil && len(images) > 0 {
		if payload, ok := a.qr.FirstPayload(images[:1]); ok {
			cover.QRPayload = payload
		}
	}
	return cover, nil
}

// analyzeSection extracts, deduplicates and classifies the movements of one
// account section. A section with no transaction-bearing pages yields an
// empty movement list and zero totals, not an error.
func (a *Analyzer) analyzeSection(ctx context.Context, bankID string, profile *banks.Profile, section AccountSection, pages PageText, cover extract.CoverData) ExtractionResult {
	res := ExtractionResult{
		Section: section,
		Cover:   cover,
		Totals:  make(map[string]float64),
	}

	txPages := TransactionPages(section, pages, profile.TransactionVariants())
	if len(txPages) == 0 {
		a.log.Debug().Str("bank", bankID).Int("start", section.Start).Int("end", section.End).
			Msg("Section has no transaction-bearing pages")
		return res
	}

	chunks := BuildChunks(txPages, pages, a.cfg.ChunkSize, a.cfg.ChunkOverlap)
	txs := a.agents.ExtractSection(ctx, bankID, chunks)

	commissions := cover.AmountOrZero(banks.FieldComisiones)
	res.Transactions, res.Totals, res.TPVNet = a.classifier.Apply(txs, commissions)
	return res
}

// AnalyzeScannedDocument recognizes a scanned document's pages through OCR
// and then runs the regular digital pipeline over the recognized text. A
// cancelled group context is reported as ErrOCRTimeout on the result.
func (a *Analyzer) AnalyzeScannedDocument(ctx context.Context, doc RawDocument, pageCount int) DocumentResult {
	result := DocumentResult{Filename: doc.Filename, Scanned: true}
	if a.raster == nil || a.ocrEngine == nil {
		result.Error = "ocr path not configured"
		return result
	}

	pageNumbers := make([]int, pageCount)
	for i := range pageNumbers {
		pageNumbers[i] = i + 1
	}
	images, err := a.raster.RenderPages(ctx, doc.Content, pageNumbers)
	if err != nil {
		result.Error = ocrError(ctx, fmt.Errorf("rasterize: %w", err))
		return result
	}

	pages := make(PageText, len(images))
	for i, img := range images {
		txt, err := a.ocrEngine.RecognizeText(ctx, img)
		if err != nil {
			result.Error = ocrError(ctx, fmt.Errorf("ocr page %d: %w", i+1, err))
			return result
		}
		pages[i+1] = strings.ToLower(txt)
	}

	analyzed := a.AnalyzeDocument(ctx, doc, pages)
	analyzed.Scanned = true
	if analyzed.Error != "" && ctx.Err() != nil {
		analyzed.Error = ErrOCRTimeout.Error()
	}
	return analyzed
}

// ocrError maps a collaborator failure under a dead group context to the
// timeout marker; anything else keeps its own text.
func ocrError(ctx context.Context, err error) string {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return ErrOCRTimeout.Error()
	}
	return err.Error()
}
