package pipeline

import (
	"context"
	"errors"

	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

// Sentinel errors for the distinguishable collaborator conditions. Per-unit
// failures carry these in the result error text; they never abort siblings.
var (
	// ErrEncryptedDocument marks a password-protected PDF.
	ErrEncryptedDocument = errors.New("document is password protected")

	// ErrEmptyDocument marks a PDF from which no usable text or pages came.
	ErrEmptyDocument = errors.New("document has no extractable content")

	// ErrBelowThreshold marks a scanned document skipped because the job's
	// reconciled deposits stayed under the OCR gate.
	ErrBelowThreshold = errors.New("job deposits below ocr threshold")

	// ErrTooManyScanned marks a scanned document skipped because the job
	// exceeded the scanned-document ceiling.
	ErrTooManyScanned = errors.New("too many scanned documents in job")

	// ErrOCRTimeout marks an OCR task cancelled by the group deadline.
	ErrOCRTimeout = errors.New("ocr task group timed out")
)

// TextExtractor produces lowercase page-indexed text from PDF bytes.
// maxPages <= 0 means all pages. An encrypted document must surface
// ErrEncryptedDocument.
type TextExtractor interface {
	PageText(ctx context.Context, pdf []byte, maxPages int) (PageText, error)
}

// Rasterizer renders the requested 1-based pages of a PDF into one image
// buffer per page, in the order requested.
type Rasterizer interface {
	RenderPages(ctx context.Context, pdf []byte, pages []int) ([][]byte, error)
}

// CoverAnalyzer is one of the two independent model providers asked for the
// scalar cover fields. Implementations must tolerate missing or malformed
// model JSON by returning an empty CoverData, not an error; errors are for
// transport failures.
type CoverAnalyzer interface {
	AnalyzeCover(ctx context.Context, bankID string, images [][]byte, text string) (extract.CoverData, error)
}

// ChunkAgent extracts the transaction candidates present in one chunk of
// statement text.
type ChunkAgent interface {
	ExtractTransactions(ctx context.Context, bankID, text string) ([]RawTransaction, error)
}

// OCREngine recognizes printed text in page images and returns it lowercased.
type OCREngine interface {
	RecognizeText(ctx context.Context, image []byte) (string, error)
}

// QRDecoder returns the first decoded QR/barcode payload found in the given
// image buffers, or ok=false when none decodes.
type QRDecoder interface {
	FirstPayload(images [][]byte) (string, bool)
}
