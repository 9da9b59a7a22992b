package extract

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoBankConfig marks a recognized bank that has no extraction profile.
var ErrNoBankConfig = errors.New("no configuration for bank")

// ParseAmount normalizes a statement monetary string ("$5,000.00", "1,022.00",
// "$ 100") into a float. The currency symbol, spaces and thousands separators
// are stripped before parsing through decimal so "1,022.00" survives exactly.
// Unparseable values report ok=false; callers decide whether absent means
// skip or 0.0.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// FormatAmount renders a float back into the two-decimal display form used in
// reports ("5000.00").
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
