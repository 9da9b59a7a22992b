// Package reconcile merges two independently extracted cover-field sets into
// one. The two inputs come from independent model providers; either one may
// have missed or mangled any field, so the merge is biased toward keeping
// whatever was found.
package reconcile

import (
	"strings"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

// Merge combines a primary and a secondary CoverData into one result.
//
// Numeric fields take max(primary-or-0, secondary-or-0): the monetary summary
// fields are monotonic and under-extraction is far more common than
// over-extraction, so union-by-maximum cuts false negatives from either
// extractor. Text fields prefer the longer trimmed string, falling back to
// the primary on equal length; empty strings count as absent.
//
// The function is pure and deterministic for identical inputs, which keeps it
// regression-testable against recorded model outputs. The bank identifier is
// always carried from the primary, falling back to the secondary.
func Merge(primary, secondary extract.CoverData) extract.CoverData {
	bank := primary.Bank
	if bank == "" {
		bank = secondary.Bank
	}
	out := extract.NewCoverData(bank)

	for _, field := range banks.NumericFields {
		a, aOK := primary.Amount(field)
		b, bOK := secondary.Amount(field)
		if !aOK && !bOK {
			continue
		}
		// Absent counts as 0 so a single extraction always survives.
		out.Amounts[string(field)] = maxFloat(a, b)
	}

	for _, field := range banks.TextFields {
		if v, ok := mergeText(primary, secondary, field); ok {
			out.Text[string(field)] = v
		}
	}

	out.QRPayload = primary.QRPayload
	if out.QRPayload == "" {
		out.QRPayload = secondary.QRPayload
	}

	return out
}

func mergeText(primary, secondary extract.CoverData, field banks.FieldID) (string, bool) {
	a, aOK := primary.TextField(field)
	b, bOK := secondary.TextField(field)

	switch {
	case aOK && bOK:
		// The longer string is assumed more complete; ties go to primary.
		if len(strings.TrimSpace(b)) > len(strings.TrimSpace(a)) {
			return b, true
		}
		return a, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return "", false
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
