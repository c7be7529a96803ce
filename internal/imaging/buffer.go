package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PixelBuffer is an RGB raster held as one contiguous slice.
//
// Pixels are stored row-major with three bytes per pixel in R, G, B order.
// The pixel at (x, y) starts at offset (y*Width + x) * 3. There is no alpha
// channel and no padding between rows.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a zeroed (black) buffer of the given size.
//
// Negative dimensions are treated as zero.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// FromImage copies img into a new PixelBuffer.
//
// The source is first normalized to non-premultiplied NRGBA, which expands
// grayscale and paletted images to full color. The alpha channel is then
// dropped without compositing, so a transparent pixel keeps its straight RGB
// value. The result is anchored at (0,0) regardless of img.Bounds().Min.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	buf := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if buf.Empty() {
		return buf
	}

	nrgba := imaging.Clone(img)
	for y := 0; y < buf.Height; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+buf.Width*4]
		dst := buf.Pix[y*buf.Width*3 : (y+1)*buf.Width*3]
		for x := 0; x < buf.Width; x++ {
			dst[x*3+0] = src[x*4+0]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return buf
}

// Empty reports whether the buffer has no pixels.
func (b *PixelBuffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// At returns the channel values of the pixel at (x, y).
// It panics if the coordinates are outside the buffer.
func (b *PixelBuffer) At(x, y int) RGBColor {
	i := b.offset(x, y)
	return RGBColor{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// Set overwrites all three channels of the pixel at (x, y).
// It panics if the coordinates are outside the buffer.
func (b *PixelBuffer) Set(x, y int, c RGBColor) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = c.R, c.G, c.B
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Image returns an opaque *image.NRGBA view of the buffer's pixels.
//
// The returned image is a copy; later changes to the buffer are not
// reflected in it. Every pixel has alpha 255, which makes the PNG encoder
// emit 8-bit truecolor without an alpha channel.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
		img.Pix[j+0] = b.Pix[i+0]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

func (b *PixelBuffer) offset(x, y int) int {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("imaging: pixel (%d,%d) outside %dx%d buffer", x, y, b.Width, b.Height))
	}
	return (y*b.Width + x) * 3
}
