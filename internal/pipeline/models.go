package pipeline

import (
	"sort"
	"strings"

	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

// RawDocument is one uploaded statement PDF. The caller owns the bytes for
// the lifetime of the request; nothing here persists them.
type RawDocument struct {
	Filename string
	Content  []byte
}

// PageText maps 1-based page numbers to extracted lowercase text. It is built
// once per document and shared read-only across every stage.
type PageText map[int]string

// Joined concatenates the pages in order, separated by newlines.
func (p PageText) Joined() string {
	return p.JoinPages(p.SortedPages())
}

// JoinPages concatenates the text of the given pages in the order given.
func (p PageText) JoinPages(pages []int) string {
	var b strings.Builder
	for _, n := range pages {
		b.WriteString(p[n])
		b.WriteString("\n")
	}
	return b.String()
}

// SortedPages returns the page numbers in ascending order.
func (p PageText) SortedPages() []int {
	pages := make([]int, 0, len(p))
	for n := range p {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages
}

// AccountSection is a contiguous page range [Start, End] holding one logical
// account of a consolidated statement. Sections partition the document with
// no gaps or overlaps.
type AccountSection struct {
	Start int `json:"pagina_inicio"`
	End   int `json:"pagina_fin"`
}

// RawTransaction is a transaction candidate as returned by an extraction
// agent, before normalization and deduplication.
type RawTransaction struct {
	Date        string `json:"fecha"`
	Description string `json:"descripcion"`
	Amount      string `json:"monto"`
}

// Transaction is a normalized, classified statement movement. The source
// amount string is preserved for display; Value carries the parsed number
// for arithmetic.
type Transaction struct {
	Date        string  `json:"fecha"`
	Description string  `json:"descripcion"`
	Amount      string  `json:"monto"`
	Value       float64 `json:"valor"`
	Category    string  `json:"categoria,omitempty"`

	// Excluded movements (commissions, VAT, fee markers) are kept for audit
	// listing but never counted in totals.
	Excluded bool `json:"excluida,omitempty"`
}

// ExtractionResult is the outcome for one account section: reconciled cover
// fields, the deduplicated classified movements, per-category totals, and an
// error marker when the section failed. The shape is identical for success
// and failure so callers read the error text, not the shape.
type ExtractionResult struct {
	Section      AccountSection     `json:"seccion"`
	Cover        extract.CoverData  `json:"portada"`
	Transactions []Transaction      `json:"movimientos"`
	Totals       map[string]float64 `json:"totales"`

	// TPVNet is the gross point-of-sale total minus reconciled commissions.
	TPVNet float64 `json:"tpv_neto"`

	Error string `json:"error,omitempty"`
}

// DocumentResult aggregates the account sections of one input document. A
// document with K accounts yields K entries in Accounts.
type DocumentResult struct {
	Filename string             `json:"archivo"`
	Scanned  bool               `json:"escaneado,omitempty"`
	Accounts []ExtractionResult `json:"cuentas,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Deposits sums the reconciled deposits across the document's accounts.
func (d DocumentResult) Deposits() float64 {
	var total float64
	for _, acc := range d.Accounts {
		total += acc.Cover.Amounts["depositos"]
	}
	return total
}

// JobAggregate is the final result for one job: one slot per input document,
// index-preserving, plus the job-wide deposit figures. TotalDeposits covers
// every analyzed account, OCR-recognized ones included; AboveThreshold is the
// gate decision, taken on the digital documents alone.
type JobAggregate struct {
	JobID          string           `json:"job_id"`
	Documents      []DocumentResult `json:"documentos"`
	TotalDeposits  float64          `json:"depositos_totales"`
	AboveThreshold bool             `json:"supera_umbral"`
}
