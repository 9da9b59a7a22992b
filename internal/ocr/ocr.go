// Package ocr recognizes printed text in rendered statement pages through the
// Azure Computer Vision API, with light image preprocessing to lift the
// recognition rate on low-quality scans.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"github.com/disintegration/imaging"
)

// Engine is a pipeline OCREngine backed by Azure Computer Vision. Safe for
// concurrent use; the underlying client is stateless per request.
type Engine struct {
	client *computervision.BaseClient
}

// New builds an engine against the given Cognitive Services endpoint.
func New(endpoint, apiKey string) *Engine {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)
	return &Engine{client: &client}
}

// RecognizeText runs printed-text OCR over one page image and returns the
// recognized lines joined with newlines, lowercased, ready for the same
// pattern extraction the digital path uses.
func (e *Engine) RecognizeText(ctx context.Context, img []byte) (string, error) {
	prepared, err := prepare(img)
	if err != nil {
		return "", err
	}

	result, err := e.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(prepared)),
		computervision.OcrLanguages(computervision.Es),
	)
	if err != nil {
		return "", fmt.Errorf("ocr: recognize printed text: %w", err)
	}

	return strings.ToLower(joinResult(result)), nil
}

// prepare applies the grayscale/contrast/sharpen chain that consistently
// helps printed statements, then re-encodes the page as JPEG.
func prepare(img []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("ocr: decode page image: %w", err)
	}

	out := imaging.Grayscale(src)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 1.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("ocr: encode prepared image: %w", err)
	}
	return buf.Bytes(), nil
}

// joinResult flattens the region/line/word tree into plain text, one
// recognized line per output line.
func joinResult(result computervision.OcrResult) string {
	if result.Regions == nil {
		return ""
	}
	var b strings.Builder
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
	}
	return b.String()
}
