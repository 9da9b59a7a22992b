package pipeline

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// pdfMagic is the header every readable PDF starts with.
var pdfMagic = []byte("%PDF")

// expandOne turns one upload into zero or more PDF documents. ZIP archives
// are walked and their PDF entries extracted; non-PDF entries inside an
// archive are ignored. A bare upload that is neither PDF nor ZIP is an input
// defect.
func expandOne(doc RawDocument) ([]RawDocument, error) {
	switch {
	case bytes.HasPrefix(doc.Content, pdfMagic):
		return []RawDocument{doc}, nil
	case isZIP(doc.Content):
		return expandZIP(doc)
	default:
		return nil, errors.New("not a pdf or zip upload")
	}
}

func isZIP(content []byte) bool {
	return bytes.HasPrefix(content, []byte("PK\x03\x04"))
}

func expandZIP(doc RawDocument) ([]RawDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var out []RawDocument
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := path.Base(entry.Name)
		if !strings.EqualFold(path.Ext(name), ".pdf") || strings.HasPrefix(name, ".") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read zip entry %s: %w", entry.Name, err)
		}
		out = append(out, RawDocument{Filename: name, Content: content})
	}
	if len(out) == 0 {
		return nil, errors.New("zip archive contains no pdf entries")
	}
	return out, nil
}
