package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

// TransactionAgent extracts the movements in one chunk of statement text
// through the agent model. One instance serves all concurrent chunk calls.
type TransactionAgent struct {
	client *Client
	model  string
	log    zerolog.Logger
}

// NewTransactionAgent builds an agent over a shared client.
func NewTransactionAgent(client *Client, model string, log zerolog.Logger) *TransactionAgent {
	return &TransactionAgent{client: client, model: model, log: log}
}

// ExtractTransactions asks the model for the movements in text. Unlike the
// cover path there is no second source to cover for a garbled response, so
// unparseable output is an error and the chunk is dropped upstream.
func (a *TransactionAgent) ExtractTransactions(ctx context.Context, bankID, text string) ([]pipeline.RawTransaction, error) {
	raw, err := a.client.generate(ctx, a.model, agentPrompt(bankID, text), nil)
	if err != nil {
		return nil, err
	}

	clean := cleanModelJSON(raw, "[", "]")
	var txs []pipeline.RawTransaction
	if err := json.Unmarshal([]byte(clean), &txs); err != nil {
		return nil, fmt.Errorf("ai: agent response is not a transaction array: %w", err)
	}
	return txs, nil
}
