package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

// fingerprintPrefixLen is how much of the description participates in the
// dedup fingerprint. Long enough to separate distinct merchants, short enough
// to survive small agent-to-agent rendering differences in the tail.
const fingerprintPrefixLen = 15

// AgentOrchestrator fans chunk-extraction calls out to an agent and collapses
// the overlapping results into one deduplicated transaction list per section.
type AgentOrchestrator struct {
	agent ChunkAgent
	log   zerolog.Logger
}

// NewAgentOrchestrator wires an orchestrator over an extraction agent.
func NewAgentOrchestrator(agent ChunkAgent, log zerolog.Logger) *AgentOrchestrator {
	return &AgentOrchestrator{agent: agent, log: log}
}

// ExtractSection dispatches one agent call per chunk. All calls for the
// section run concurrently; a failed chunk contributes zero transactions and
// never aborts its siblings. Results land in per-chunk slots, so the final
// order is by source chunk start page then detection order within the chunk,
// regardless of completion order. The combined list is deduplicated by
// fingerprint before returning.
func (o *AgentOrchestrator) ExtractSection(ctx context.Context, bankID string, chunks []Chunk) []Transaction {
	slots := make([][]Transaction, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk Chunk) {
			defer wg.Done()
			raw, err := o.agent.ExtractTransactions(ctx, bankID, chunk.Text)
			if err != nil {
				o.log.Warn().
					Err(err).
					Str("bank", bankID).
					Int("chunk_start_page", chunk.StartPage()).
					Msg("Chunk extraction failed, contributing zero transactions")
				return
			}
			slots[i] = normalizeRaw(raw)
		}(i, chunk)
	}
	wg.Wait()

	var combined []Transaction
	for _, txs := range slots {
		combined = append(combined, txs...)
	}
	return Deduplicate(combined)
}

// Deduplicate collapses duplicate transaction candidates produced by
// overlapping chunks. The fingerprint is the ordered tuple (date, amount,
// first 15 characters of description); first-seen order is preserved, and the
// operation is idempotent.
func Deduplicate(txs []Transaction) []Transaction {
	seen := make(map[string]bool, len(txs))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		fp := Fingerprint(tx)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, tx)
	}
	return out
}

// Fingerprint computes the composite dedup key for a transaction. The amount
// participates in parsed form so "1,022.00" and "1022.00" collapse.
func Fingerprint(tx Transaction) string {
	desc := strings.TrimSpace(strings.ToLower(tx.Description))
	if len(desc) > fingerprintPrefixLen {
		desc = desc[:fingerprintPrefixLen]
	}
	return fmt.Sprintf("%s|%.2f|%s", strings.TrimSpace(tx.Date), tx.Value, desc)
}

// normalizeRaw converts agent candidates into transactions, parsing the
// amount for arithmetic. Candidates whose amount cannot be parsed are kept
// with Value 0 so they still appear in the audit listing.
func normalizeRaw(raw []RawTransaction) []Transaction {
	out := make([]Transaction, 0, len(raw))
	for _, r := range raw {
		date := strings.TrimSpace(r.Date)
		desc := strings.TrimSpace(r.Description)
		amount := strings.TrimSpace(r.Amount)
		if date == "" && desc == "" && amount == "" {
			continue
		}
		value, _ := extract.ParseAmount(amount)
		out = append(out, Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Value:       value,
		})
	}
	return out
}
