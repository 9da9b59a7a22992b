package banks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FieldID identifies a scalar cover-page field extracted from statement text.
type FieldID string

const (
	FieldRFC           FieldID = "rfc"
	FieldCliente       FieldID = "cliente"
	FieldPeriodo       FieldID = "periodo"
	FieldDepositos     FieldID = "depositos"
	FieldCargos        FieldID = "cargos"
	FieldComisiones    FieldID = "comisiones"
	FieldSaldoPromedio FieldID = "saldo_promedio"
)

// NumericFields lists the monotonic monetary fields, in the order they are
// reported. Reconciliation takes the larger of two candidates for these.
var NumericFields = []FieldID{FieldDepositos, FieldCargos, FieldComisiones, FieldSaldoPromedio}

// TextFields lists the free-text cover fields.
var TextFields = []FieldID{FieldRFC, FieldCliente, FieldPeriodo}

// ErrUnknownBank is returned when no alias of any configured bank occurs in the text.
var ErrUnknownBank = errors.New("bank not recognized in statement text")

// Profile holds everything the pipeline knows about one bank's statement format.
// Profiles are built once at startup and never mutated afterwards.
type Profile struct {
	// ID is the canonical lowercase bank key, e.g. "banbajío".
	ID string

	// Aliases are the lowercase strings whose presence in statement text
	// identifies this bank. Longer aliases must come first so that the
	// combined detector alternation prefers them at equal positions.
	Aliases []string

	// fields maps each scalar field to one compiled alternation built from
	// the ordered pattern list for that field. Every branch carries exactly
	// one capturing group for the value.
	fields map[FieldID]*regexp.Regexp

	// txVariants maps a variant name to the transaction-line pattern for
	// that layout. Variants differ in tuple field ordering per bank.
	txVariants map[string]*regexp.Regexp

	// CoverAtEnd marks banks that print account totals on the closing pages,
	// so the page planner must include the tail of the document.
	CoverAtEnd bool

	// AccountHeading, when non-nil, matches the heading line that starts a
	// new account section inside a consolidated multi-account statement.
	AccountHeading *regexp.Regexp
}

// FieldPattern returns the compiled alternation for a field, or nil when the
// bank does not configure that field.
func (p *Profile) FieldPattern(f FieldID) *regexp.Regexp {
	return p.fields[f]
}

// TransactionVariants returns the configured transaction-line patterns keyed
// by variant name.
func (p *Profile) TransactionVariants() map[string]*regexp.Regexp {
	return p.txVariants
}

// Registry is the immutable table of bank profiles plus the combined alias
// pattern used for detection. It is safe for concurrent use.
type Registry struct {
	profiles map[string]*Profile
	// aliasRe is a single alternation over every alias of every bank;
	// leftmost-match semantics over this one pattern decide detection ties.
	aliasRe *regexp.Regexp
	// aliasOwner maps each alias back to its canonical bank id.
	aliasOwner map[string]string
}

// NewRegistry compiles the built-in profile table. Pattern compilation errors
// are programmer mistakes, so this panics instead of returning an error.
func NewRegistry() *Registry {
	return newRegistry(builtinProfiles())
}

func newRegistry(specs []profileSpec) *Registry {
	r := &Registry{
		profiles:   make(map[string]*Profile, len(specs)),
		aliasOwner: make(map[string]string),
	}

	var aliasAlts []string
	for _, spec := range specs {
		p := &Profile{
			ID:         spec.id,
			Aliases:    spec.aliases,
			fields:     make(map[FieldID]*regexp.Regexp, len(spec.fields)),
			txVariants: make(map[string]*regexp.Regexp, len(spec.txVariants)),
			CoverAtEnd: spec.coverAtEnd,
		}
		for field, patterns := range spec.fields {
			p.fields[field] = compileAlternation(spec.id, string(field), patterns)
		}
		for name, pattern := range spec.txVariants {
			p.txVariants[name] = regexp.MustCompile(pattern)
		}
		if spec.accountHeading != "" {
			p.AccountHeading = regexp.MustCompile(spec.accountHeading)
		}
		if _, dup := r.profiles[spec.id]; dup {
			panic(fmt.Sprintf("banks: duplicate profile %q", spec.id))
		}
		r.profiles[spec.id] = p

		for _, alias := range spec.aliases {
			if owner, taken := r.aliasOwner[alias]; taken {
				panic(fmt.Sprintf("banks: alias %q claimed by both %q and %q", alias, owner, spec.id))
			}
			r.aliasOwner[alias] = spec.id
			aliasAlts = append(aliasAlts, regexp.QuoteMeta(alias))
		}
	}

	// One combined alternation for all banks. Go's alternation is
	// leftmost-first, so alias registration order is the tie-break at equal
	// text positions.
	r.aliasRe = regexp.MustCompile(strings.Join(aliasAlts, "|"))
	return r
}

// compileAlternation joins an ordered pattern list into one alternation so a
// single scan yields the first match overall.
func compileAlternation(bankID, field string, patterns []string) *regexp.Regexp {
	if len(patterns) == 0 {
		panic(fmt.Sprintf("banks: %s/%s has no patterns", bankID, field))
	}
	branches := make([]string, len(patterns))
	for i, p := range patterns {
		branches[i] = "(?:" + p + ")"
	}
	re, err := regexp.Compile(strings.Join(branches, "|"))
	if err != nil {
		panic(fmt.Sprintf("banks: compiling %s/%s: %v", bankID, field, err))
	}
	return re
}

// Profile returns the profile for a canonical bank id.
func (r *Registry) Profile(bankID string) (*Profile, bool) {
	p, ok := r.profiles[bankID]
	return p, ok
}

// IDs returns every configured canonical bank id.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids
}
