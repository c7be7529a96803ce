package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"

	"github.com/anthonynsimon/bild/adjust"
)

// previewDim is the brightness change applied to unmatched pixels.
const previewDim = -0.6

// PreviewResult contains a mask preview encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// MaskPreview renders which pixels a recolor would touch.
//
// The original image is darkened and every matched pixel is painted in
// highlight at full brightness, so the affected regions stand out. buf is
// not modified.
func MaskPreview(buf *PixelBuffer, m *Mask, highlight RGBColor) (*PreviewResult, error) {
	if buf.Empty() {
		return nil, fmt.Errorf("cannot preview zero-dimension image")
	}

	out := adjust.Brightness(buf.Image(), previewDim)
	hc := color.RGBA{R: highlight.R, G: highlight.G, B: highlight.B, A: 0xff}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				out.SetRGBA(x, y, hc)
			}
		}
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, out); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       buf.Width,
		Height:      buf.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(encoded.Bytes()),
		MimeType:    "image/png",
	}, nil
}
