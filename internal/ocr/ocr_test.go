package ocr

import (
	"bytes"
	"image"
	"testing"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/disintegration/imaging"
)

func strPtr(s string) *string { return &s }

func TestJoinResult(t *testing.T) {
	result := computervision.OcrResult{
		Regions: &[]computervision.OcrRegion{
			{
				Lines: &[]computervision.OcrLine{
					{Words: &[]computervision.OcrWord{
						{Text: strPtr("ESTADO")},
						{Text: strPtr("DE")},
						{Text: strPtr("CUENTA")},
					}},
					{Words: &[]computervision.OcrWord{
						{Text: strPtr("DEPOSITOS:")},
						{Text: strPtr("$5,000.00")},
					}},
				},
			},
			{Lines: nil},
		},
	}

	want := "ESTADO DE CUENTA\nDEPOSITOS: $5,000.00\n"
	if got := joinResult(result); got != want {
		t.Errorf("joinResult = %q, want %q", got, want)
	}
}

func TestJoinResultEmpty(t *testing.T) {
	if got := joinResult(computervision.OcrResult{}); got != "" {
		t.Errorf("joinResult of empty result = %q, want empty", got)
	}
}

func TestPrepareRoundTrips(t *testing.T) {
	src := imaging.New(40, 40, image.White.C)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, err := prepare(buf.Bytes())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("prepare returned no image data")
	}
	if _, err := imaging.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("prepared output does not decode: %v", err)
	}
}
