package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// scriptedAgent returns a fixed transaction list per chunk text, and fails
// for texts in failOn.
type scriptedAgent struct {
	byText map[string][]RawTransaction
	failOn map[string]bool
}

func (a *scriptedAgent) ExtractTransactions(ctx context.Context, bankID, text string) ([]RawTransaction, error) {
	if a.failOn[text] {
		return nil, errors.New("agent unavailable")
	}
	return a.byText[text], nil
}

func TestExtractSectionDeduplicatesOverlap(t *testing.T) {
	// Both chunks report the boundary transaction from the shared page.
	boundary := RawTransaction{Date: "05-may-25", Amount: "1,022.00", Description: "gardomi monterrey 10 09229981d"}
	agent := &scriptedAgent{byText: map[string][]RawTransaction{
		"chunk-a": {
			{Date: "02-may-25", Amount: "500.00", Description: "venta tpv sucursal centro"},
			boundary,
		},
		"chunk-b": {
			boundary,
			{Date: "06-may-25", Amount: "750.00", Description: "venta tpv plaza norte"},
		},
	}}

	o := NewAgentOrchestrator(agent, zerolog.Nop())
	chunks := []Chunk{
		{Pages: []int{3, 4, 5}, Text: "chunk-a"},
		{Pages: []int{5, 6, 7}, Text: "chunk-b"},
	}

	got := o.ExtractSection(context.Background(), "banbajío", chunks)
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3: %+v", len(got), got)
	}

	var boundaryCount int
	for _, tx := range got {
		if tx.Date == "05-may-25" && tx.Amount == "1,022.00" {
			boundaryCount++
		}
	}
	if boundaryCount != 1 {
		t.Errorf("boundary transaction appears %d times, want exactly 1", boundaryCount)
	}

	// Order follows chunk start page, then detection order within the chunk.
	wantDates := []string{"02-may-25", "05-may-25", "06-may-25"}
	for i, tx := range got {
		if tx.Date != wantDates[i] {
			t.Errorf("position %d: date %s, want %s", i, tx.Date, wantDates[i])
		}
	}
}

func TestExtractSectionFailedChunkIsIsolated(t *testing.T) {
	agent := &scriptedAgent{
		byText: map[string][]RawTransaction{
			"ok": {{Date: "01-may-25", Amount: "100.00", Description: "venta tpv"}},
		},
		failOn: map[string]bool{"broken": true},
	}

	o := NewAgentOrchestrator(agent, zerolog.Nop())
	got := o.ExtractSection(context.Background(), "bbva", []Chunk{
		{Pages: []int{1}, Text: "broken"},
		{Pages: []int{2}, Text: "ok"},
	})

	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1 from the surviving chunk", len(got))
	}
	if got[0].Value != 100.0 {
		t.Errorf("Value = %v, want 100.0", got[0].Value)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	txs := []Transaction{
		{Date: "05-may-25", Amount: "1,022.00", Value: 1022.0, Description: "gardomi monterrey 10 09229981d"},
		{Date: "05-may-25", Amount: "1022.00", Value: 1022.0, Description: "gardomi monterrey 10 09229981d"},
		{Date: "05-may-25", Amount: "1,022.00", Value: 1022.0, Description: "otra tienda xyz"},
		{Date: "06-may-25", Amount: "1,022.00", Value: 1022.0, Description: "gardomi monterrey 10 09229981d"},
	}

	once := Deduplicate(txs)
	twice := Deduplicate(once)

	if len(once) != 3 {
		t.Fatalf("Deduplicate() kept %d, want 3", len(once))
	}
	if !reflect.DeepEqual(once, twice) {
		t.Error("Deduplicate() is not idempotent")
	}
}

func TestFingerprintUsesDescriptionPrefix(t *testing.T) {
	a := Transaction{Date: "05-may-25", Value: 1022.0, Description: "gardomi monterrey 10 09229981d"}
	b := Transaction{Date: "05-may-25", Value: 1022.0, Description: "gardomi monterre" + "y sucursal distinta"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("descriptions sharing the 15-char prefix should collapse")
	}

	c := Transaction{Date: "05-may-25", Value: 1022.0, Description: "abarrotes lupita"}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("distinct descriptions must not collapse")
	}
}

func TestNormalizeRawKeepsUnparseableAmounts(t *testing.T) {
	got := normalizeRaw([]RawTransaction{
		{Date: "01-may-25", Amount: "??", Description: "ilegible"},
		{},
	})
	if len(got) != 1 {
		t.Fatalf("got %d, want 1 (empty candidate dropped)", len(got))
	}
	if got[0].Value != 0 || !strings.Contains(got[0].Description, "ilegible") {
		t.Errorf("unexpected candidate %+v", got[0])
	}
}
