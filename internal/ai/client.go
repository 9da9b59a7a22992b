package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Model names for the two independent cover providers and the transaction
// agents. Two different models keep the cover readings genuinely independent.
const (
	PrimaryCoverModel   = "gemini-2.5-flash"
	SecondaryCoverModel = "gemini-2.5-pro"
	AgentModel          = "gemini-2.5-flash"
)

// Client wraps one GenAI connection shared by every provider built on it.
// Credentials come from the environment (GEMINI_API_KEY or ADC).
type Client struct {
	genai *genai.Client
}

// NewClient connects to the GenAI API.
func NewClient(ctx context.Context) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}
	return &Client{genai: c}, nil
}

// generate sends one prompt with optional inline JPEG pages and returns the
// raw model text.
func (c *Client) generate(ctx context.Context, model, prompt string, images [][]byte) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "image/jpeg",
				Data:     img,
			},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("ai: generate content (%s): %w", model, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("ai: empty response from %s", model)
	}
	return text, nil
}
