package imaging

import (
	"fmt"
	"image"
)

// Threshold configures the red-detection predicate.
//
// All three comparisons are strict:
//
//	R > RedMin && G < GreenMax && B < BlueMax
//
// so a pixel sitting exactly on any bound is not matched.
type Threshold struct {
	RedMin   uint8 `json:"red_min"`   // Red must be strictly greater
	GreenMax uint8 `json:"green_max"` // Green must be strictly less
	BlueMax  uint8 `json:"blue_max"`  // Blue must be strictly less
}

// DefaultThreshold matches strongly red pixels: R > 150, G < 100, B < 100.
var DefaultThreshold = Threshold{RedMin: 150, GreenMax: 100, BlueMax: 100}

// Match reports whether a single pixel satisfies the threshold.
func (t Threshold) Match(r, g, b uint8) bool {
	return r > t.RedMin && g < t.GreenMax && b < t.BlueMax
}

func (t Threshold) String() string {
	return fmt.Sprintf("R>%d G<%d B<%d", t.RedMin, t.GreenMax, t.BlueMax)
}

// Mask marks which pixels of a PixelBuffer matched a Threshold.
//
// A Mask always has the dimensions of the buffer it was built from.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// BuildMask evaluates t against every pixel of buf.
//
// Parameters:
//   - buf: The pixels to test. It is only read.
//   - t: The detection predicate.
//
// Returns a Mask of identical width and height. An empty buffer yields an
// empty mask.
func BuildMask(buf *PixelBuffer, t Threshold) *Mask {
	m := &Mask{
		Width:  buf.Width,
		Height: buf.Height,
		bits:   make([]bool, buf.Width*buf.Height),
	}
	for i := range m.bits {
		p := buf.Pix[i*3 : i*3+3]
		m.bits[i] = t.Match(p[0], p[1], p[2])
	}
	return m
}

// At reports whether the pixel at (x, y) matched. Coordinates outside the
// mask report false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Count returns the number of matched pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Bounds returns the smallest rectangle containing every matched pixel.
// It returns the empty rectangle when nothing matched.
func (m *Mask) Bounds() image.Rectangle {
	var r image.Rectangle
	for y := 0; y < m.Height; y++ {
		row := m.bits[y*m.Width : (y+1)*m.Width]
		for x, b := range row {
			if !b {
				continue
			}
			r = r.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return r
}
