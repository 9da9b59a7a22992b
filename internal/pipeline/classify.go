package pipeline

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Business categories, in the fixed priority order they are tested.
const (
	CategoryCashDeposits = "depositos_efectivo"
	CategoryTransfers    = "traspasos"
	CategoryFinancing    = "financiamiento"
	CategoryAltProcessor = "procesador_alterno"
	CategoryTPV          = "tpv"
)

// KeywordConfig is the classification configuration injected at startup. It
// is never mutated at runtime.
type KeywordConfig struct {
	// Exclusions drop a movement from totals entirely (commission, VAT and
	// fee markers). Tested before any category.
	Exclusions []string

	// Categories are tested in slice order; the first whose keyword set
	// matches wins. Movements matching none fall through to CategoryTPV.
	Categories []CategoryKeywords
}

// CategoryKeywords is one named keyword set.
type CategoryKeywords struct {
	Name     string
	Keywords []string
}

// DefaultKeywords returns the built-in classification table for Mexican
// business statements.
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		Exclusions: []string{
			"comision", "comisión", "iva ", "i.v.a", "impuesto",
			"manejo de cuenta", "cobro serv", "membresia", "membresía",
		},
		Categories: []CategoryKeywords{
			{Name: CategoryCashDeposits, Keywords: []string{
				"deposito en efectivo", "depósito en efectivo", "dep efectivo",
				"deposito efectivo", "efectivo practicaja", "deposito mixto",
			}},
			{Name: CategoryTransfers, Keywords: []string{
				"traspaso", "transferencia entre cuentas", "cuenta propia",
				"traspaso entre cuentas",
			}},
			{Name: CategoryFinancing, Keywords: []string{
				"disposicion de credito", "disposición de crédito",
				"prestamo", "préstamo", "credito simple", "crédito simple",
				"financiamiento",
			}},
			{Name: CategoryAltProcessor, Keywords: []string{
				"clip", "mercado pago", "mercadopago", "sr pago", "billpocket",
			}},
		},
	}
}

// Classifier assigns each non-excluded transaction to exactly one category.
// The keyword sets are compiled into one Aho-Corasick matcher per set, so the
// cost of a lookup is independent of the keyword count. Immutable after
// construction, safe for concurrent use.
type Classifier struct {
	exclusions *ahocorasick.Matcher
	categories []compiledCategory
}

type compiledCategory struct {
	name    string
	matcher *ahocorasick.Matcher
}

// NewClassifier builds a classifier from the default keyword table.
func NewClassifier() *Classifier {
	return NewClassifierWith(DefaultKeywords())
}

// NewClassifierWith builds a classifier from an injected keyword table.
func NewClassifierWith(cfg KeywordConfig) *Classifier {
	c := &Classifier{}
	if len(cfg.Exclusions) > 0 {
		c.exclusions = ahocorasick.NewStringMatcher(cfg.Exclusions)
	}
	for _, cat := range cfg.Categories {
		if len(cat.Keywords) == 0 {
			continue
		}
		c.categories = append(c.categories, compiledCategory{
			name:    cat.Name,
			matcher: ahocorasick.NewStringMatcher(cat.Keywords),
		})
	}
	return c
}

// Classify lowercases the description, applies the exclusion filter first,
// then tests the category sets in their fixed order. Every non-excluded
// movement gets exactly one category; no match means CategoryTPV.
func (c *Classifier) Classify(description string) (category string, excluded bool) {
	desc := strings.ToLower(description)

	if c.exclusions != nil && len(c.exclusions.Match([]byte(desc))) > 0 {
		return "", true
	}
	for _, cat := range c.categories {
		if len(cat.matcher.Match([]byte(desc))) > 0 {
			return cat.name, false
		}
	}
	return CategoryTPV, false
}

// Apply classifies every transaction, accumulates per-category totals over
// the non-excluded ones, and computes the net point-of-sale inflow as the
// gross TPV total minus the reconciled commissions (0.0 when absent).
// Excluded movements stay in the returned list, flagged, for audit.
func (c *Classifier) Apply(txs []Transaction, commissions float64) ([]Transaction, map[string]float64, float64) {
	totals := make(map[string]float64)
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		category, excluded := c.Classify(tx.Description)
		tx.Category = category
		tx.Excluded = excluded
		if !excluded {
			totals[category] += tx.Value
		}
		out[i] = tx
	}
	tpvNet := totals[CategoryTPV] - commissions
	return out, totals, tpvNet
}
