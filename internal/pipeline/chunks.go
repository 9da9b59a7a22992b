package pipeline

import "regexp"

// Chunk is one sliding window of transaction-bearing pages submitted to an
// extraction agent as a unit.
type Chunk struct {
	Pages []int
	Text  string
}

// StartPage returns the first page of the chunk, or 0 for an empty chunk.
func (c Chunk) StartPage() int {
	if len(c.Pages) == 0 {
		return 0
	}
	return c.Pages[0]
}

// BuildChunks partitions an ordered page list into overlapping windows of
// size pages each, with consecutive windows sharing exactly overlap pages,
// so the window start advances size-overlap per step. The final window may be
// shorter; together the windows cover every input page. The overlap exists so
// a transaction spanning a page boundary is seen whole by at least one agent,
// at the cost of duplicate candidates that dedup collapses downstream.
//
// overlap must be smaller than size; violations fall back to no overlap.
func BuildChunks(pages []int, text PageText, size, overlap int) []Chunk {
	if len(pages) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	step := size - overlap
	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + size
		if end > len(pages) {
			end = len(pages)
		}
		window := pages[start:end]
		chunks = append(chunks, Chunk{
			Pages: window,
			Text:  text.JoinPages(window),
		})
		if end == len(pages) {
			break
		}
	}
	return chunks
}

// TransactionPages returns, in order, the pages of a section whose text
// contains at least one transaction-bearing line for any of the bank's
// configured variants.
func TransactionPages(section AccountSection, pages PageText, variants map[string]*regexp.Regexp) []int {
	var out []int
	for n := section.Start; n <= section.End; n++ {
		txt, ok := pages[n]
		if !ok {
			continue
		}
		for _, re := range variants {
			if re.MatchString(txt) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
