// Package qr probes statement cover images for the CFDI-style QR code some
// banks print next to the account summary.
package qr

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder finds and decodes QR codes in page images. Stateless, safe for
// concurrent use.
type Decoder struct{}

// New returns a decoder.
func New() *Decoder {
	return &Decoder{}
}

// FirstPayload returns the first QR payload decoded from the given images.
// Images that fail to decode or carry no QR are skipped; a cover without a
// code is the common case, not an error.
func (d *Decoder) FirstPayload(images [][]byte) (string, bool) {
	reader := qrcode.NewQRCodeReader()
	for _, raw := range images {
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			continue
		}
		bmp, err := gozxing.NewBinaryBitmapFromImage(img)
		if err != nil {
			continue
		}
		result, err := reader.Decode(bmp, nil)
		if err != nil {
			continue
		}
		if text := result.GetText(); text != "" {
			return text, true
		}
	}
	return "", false
}
