package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mxfin-tools/tpv-analyzer/internal/banks"
	"github.com/mxfin-tools/tpv-analyzer/internal/extract"
)

// CoverProvider is one model-backed reading of a statement's cover fields.
// Build two with different models and prompt styles to get the independent
// pair the reconciliation step expects.
type CoverProvider struct {
	client *Client
	model  string
	style  PromptStyle
	log    zerolog.Logger
}

// NewCoverProvider builds a provider over a shared client.
func NewCoverProvider(client *Client, model string, style PromptStyle, log zerolog.Logger) *CoverProvider {
	return &CoverProvider{client: client, model: model, style: style, log: log}
}

// coverPayload is the wire shape requested from the model. Amounts arrive as
// printed strings and are normalized here.
type coverPayload struct {
	Campos map[string]string `json:"campos"`
	Montos map[string]string `json:"montos"`
}

// AnalyzeCover asks the model for the scalar cover fields. Transport failures
// are errors; a response that is not the requested JSON is an empty reading,
// because the other provider and the pattern extraction still cover for it.
func (p *CoverProvider) AnalyzeCover(ctx context.Context, bankID string, images [][]byte, text string) (extract.CoverData, error) {
	prompt := coverPrompt(p.style, bankID)
	if len(images) == 0 {
		prompt += "\n--- texto de la carátula ---\n" + text + "\n"
	}

	raw, err := p.client.generate(ctx, p.model, prompt, images)
	if err != nil {
		return extract.CoverData{}, err
	}

	return decodeCover(bankID, raw, p.log), nil
}

func decodeCover(bankID, raw string, log zerolog.Logger) extract.CoverData {
	cover := extract.NewCoverData(bankID)

	var payload coverPayload
	clean := cleanModelJSON(raw, "{", "}")
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		log.Warn().Err(err).Str("bank", bankID).Msg("Cover response is not valid JSON, treating as empty reading")
		return cover
	}

	for _, id := range banks.TextFields {
		if v := strings.TrimSpace(payload.Campos[string(id)]); v != "" {
			cover.Text[string(id)] = strings.ToLower(v)
		}
	}
	for _, id := range banks.NumericFields {
		raw, ok := payload.Montos[string(id)]
		if !ok {
			continue
		}
		if v, ok := extract.ParseAmount(raw); ok {
			cover.Amounts[string(id)] = v
		}
	}
	return cover
}
