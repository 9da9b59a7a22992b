package banks

import "strings"

// Detect scans statement text for the leftmost bank alias and returns the
// canonical id of the owning bank. The scan runs over one combined alternation
// of every alias, so ties between overlapping aliases are decided by the
// regexp engine's leftmost-match semantics, not by per-bank iteration order.
// Returns ErrUnknownBank when nothing matches.
func (r *Registry) Detect(text string) (string, error) {
	loc := r.aliasRe.FindStringIndex(text)
	if loc == nil {
		return "", ErrUnknownBank
	}
	alias := text[loc[0]:loc[1]]
	id, ok := r.aliasOwner[alias]
	if !ok {
		// QuoteMeta guarantees matches are literal aliases; reaching here
		// would mean the table and the pattern disagree.
		return "", ErrUnknownBank
	}
	return id, nil
}

// DetectLowered lowercases the input before detection. Page text arrives
// already lowered from the extraction collaborator; this is for callers
// holding raw text.
func (r *Registry) DetectLowered(text string) (string, error) {
	return r.Detect(strings.ToLower(text))
}
