package pipeline

import (
	"sort"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
)

// coverTailPages is how many closing pages join the cover set for banks that
// print the account summary at the end of the document.
const coverTailPages = 3

// CoverPages returns the 1-based pages submitted to the cover-page analyzers:
// the first two pages, plus the document tail for banks that place account
// metadata near the end.
func CoverPages(profile *banks.Profile, pageCount int) []int {
	pages := []int{1}
	if pageCount >= 2 {
		pages = append(pages, 2)
	}
	if profile != nil && profile.CoverAtEnd {
		start := pageCount - coverTailPages + 1
		if start < 3 {
			start = 3
		}
		for n := start; n <= pageCount; n++ {
			pages = append(pages, n)
		}
	}
	return pages
}

// DetectAccountCuts scans page text for the bank's account-heading pattern
// and returns the pages where a new account section begins. Page 1 is never a
// cut (the first section always starts there). Banks without a configured
// heading yield no cuts.
func DetectAccountCuts(profile *banks.Profile, pages PageText) []int {
	if profile == nil || profile.AccountHeading == nil {
		return nil
	}
	var cuts []int
	for _, n := range pages.SortedPages() {
		if n == 1 {
			continue
		}
		if profile.AccountHeading.MatchString(pages[n]) {
			cuts = append(cuts, n)
		}
	}
	return cuts
}

// PlanSections produces contiguous account sections spanning the whole
// document: the first starts at page 1; each cut point starts a new section
// ending at the page before the next cut, and the last runs to the document
// end. Out-of-range or duplicate cut points are discarded. The returned
// sections partition [1, pageCount] with no gaps or overlaps.
func PlanSections(pageCount int, cuts []int) []AccountSection {
	if pageCount < 1 {
		return nil
	}

	valid := cuts[:0:0]
	seen := make(map[int]bool)
	for _, c := range cuts {
		if c <= 1 || c > pageCount || seen[c] {
			continue
		}
		seen[c] = true
		valid = append(valid, c)
	}
	sort.Ints(valid)

	sections := make([]AccountSection, 0, len(valid)+1)
	start := 1
	for _, c := range valid {
		sections = append(sections, AccountSection{Start: start, End: c - 1})
		start = c
	}
	sections = append(sections, AccountSection{Start: start, End: pageCount})
	return sections
}

// MetadataPages returns the pages used to re-derive cover metadata for a
// section after the first: the section's first page plus the page immediately
// preceding it, which captures carry-over headers.
func MetadataPages(section AccountSection) []int {
	if section.Start <= 1 {
		return []int{section.Start}
	}
	return []int{section.Start - 1, section.Start}
}
