package imaging

import "fmt"

// Recolor overwrites every pixel selected by m with c.
//
// All three channels of a selected pixel are written together; pixels not
// selected by the mask are left untouched. The buffer is modified in place.
//
// Parameters:
//   - buf: The buffer to modify.
//   - m: A mask built from buf. It must have the same dimensions.
//   - c: The replacement color.
//
// Returns the number of pixels that were overwritten.
//
// Recolor panics if the mask dimensions differ from the buffer's, since that
// can only happen when a mask is paired with the wrong buffer.
func Recolor(buf *PixelBuffer, m *Mask, c RGBColor) int {
	if m.Width != buf.Width || m.Height != buf.Height {
		panic(fmt.Sprintf("imaging: mask %dx%d does not match buffer %dx%d",
			m.Width, m.Height, buf.Width, buf.Height))
	}

	changed := 0
	for i, selected := range m.bits {
		if !selected {
			continue
		}
		p := buf.Pix[i*3 : i*3+3]
		p[0], p[1], p[2] = c.R, c.G, c.B
		changed++
	}
	return changed
}
