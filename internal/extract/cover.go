// Package extract applies a bank profile's compiled patterns to statement
// text and normalizes the captured values into one CoverData per account.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
)

// CoverData carries the scalar cover-page fields for one account section,
// annotated with the bank that produced them. Text fields absent from the
// statement are missing from Text; monetary fields that did not parse are
// missing from Amounts (absent, not zero).
type CoverData struct {
	Bank    string             `json:"banco"`
	Text    map[string]string  `json:"campos,omitempty"`
	Amounts map[string]float64 `json:"montos,omitempty"`

	// QRPayload holds the first decoded QR string from the cover page,
	// when the document embeds one.
	QRPayload string `json:"qr,omitempty"`
}

// NewCoverData returns an empty CoverData for the given bank.
func NewCoverData(bank string) CoverData {
	return CoverData{
		Bank:    bank,
		Text:    make(map[string]string),
		Amounts: make(map[string]float64),
	}
}

// TextField returns a text field, trimmed, with empty treated as absent.
func (c CoverData) TextField(f banks.FieldID) (string, bool) {
	v, ok := c.Text[string(f)]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Amount returns a monetary field and whether it was extracted.
func (c CoverData) Amount(f banks.FieldID) (float64, bool) {
	v, ok := c.Amounts[string(f)]
	return v, ok
}

// AmountOrZero returns a monetary field with 0.0 substituted for absent, for
// callers that need a default for downstream arithmetic.
func (c CoverData) AmountOrZero(f banks.FieldID) float64 {
	return c.Amounts[string(f)]
}

// Extractor resolves a bank id against the registry and runs that bank's
// field patterns over statement text.
type Extractor struct {
	reg *banks.Registry
}

// NewExtractor creates an Extractor over an immutable registry.
func NewExtractor(reg *banks.Registry) *Extractor {
	return &Extractor{reg: reg}
}

// Extract applies every configured field pattern of the given bank to text.
// Each field's pattern list is compiled as one alternation, so the first
// match overall wins. Monetary fields are normalized; values that fail to
// parse stay absent. A recognized bank without a profile is reported as a
// distinguishable error, never as silently empty data.
func (e *Extractor) Extract(bankID, text string) (CoverData, error) {
	profile, ok := e.reg.Profile(bankID)
	if !ok {
		return CoverData{}, fmt.Errorf("%w: %s", ErrNoBankConfig, bankID)
	}

	cover := NewCoverData(bankID)

	for _, field := range banks.TextFields {
		re := profile.FieldPattern(field)
		if re == nil {
			continue
		}
		if v := firstCapture(re, text); v != "" {
			cover.Text[string(field)] = strings.TrimSpace(v)
		}
	}

	for _, field := range banks.NumericFields {
		re := profile.FieldPattern(field)
		if re == nil {
			continue
		}
		raw := firstCapture(re, text)
		if raw == "" {
			continue
		}
		if amount, ok := ParseAmount(raw); ok {
			cover.Amounts[string(field)] = amount
		}
	}

	return cover, nil
}

// firstCapture returns the first non-empty capturing group of the first
// match, or "". Alternation branches each carry one group, so this picks the
// value of whichever branch matched.
func firstCapture(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
