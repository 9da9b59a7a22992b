// Package pdftext extracts page text and page images from PDF bytes through
// MuPDF. It backs both the digital text path and the rasterization feeding
// the cover analyzers and OCR.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

// jpegQuality balances model-input fidelity against upload size.
const jpegQuality = 85

// Extractor opens each document fresh per call; fitz documents are not safe
// for concurrent use, so nothing is cached between calls.
type Extractor struct{}

// New returns a stateless extractor.
func New() *Extractor {
	return &Extractor{}
}

// PageText extracts lowercase text per 1-based page. maxPages <= 0 reads the
// whole document. Password-protected documents surface
// pipeline.ErrEncryptedDocument.
func (e *Extractor) PageText(ctx context.Context, pdf []byte, maxPages int) (pipeline.PageText, error) {
	doc, err := open(pdf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	count := doc.NumPage()
	if maxPages > 0 && count > maxPages {
		count = maxPages
	}

	pages := make(pipeline.PageText, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		txt, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("pdftext: page %d text: %w", i+1, err)
		}
		pages[i+1] = strings.ToLower(txt)
	}
	if len(pages) == 0 {
		return nil, pipeline.ErrEmptyDocument
	}
	return pages, nil
}

// RenderPages renders the requested 1-based pages as JPEG buffers, in the
// order requested. Pages outside the document are an error, not a skip.
func (e *Extractor) RenderPages(ctx context.Context, pdf []byte, pageNumbers []int) ([][]byte, error) {
	doc, err := open(pdf)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	count := doc.NumPage()
	out := make([][]byte, 0, len(pageNumbers))
	for _, n := range pageNumbers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("pdftext: page %d out of range (document has %d)", n, count)
		}
		img, err := doc.Image(n - 1)
		if err != nil {
			return nil, fmt.Errorf("pdftext: render page %d: %w", n, err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("pdftext: encode page %d: %w", n, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

func open(pdf []byte) (*fitz.Document, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, pipeline.ErrEncryptedDocument
		}
		return nil, fmt.Errorf("pdftext: open document: %w", err)
	}
	return doc, nil
}
