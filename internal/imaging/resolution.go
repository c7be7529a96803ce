package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/rwcarlsen/goexif/exif"
)

const (
	metersPerInch = 0.0254
	cmPerInch     = 2.54
)

// Resolution is the print density of an image in dots per inch.
type Resolution struct {
	X float64 `json:"dpi_x"`
	Y float64 `json:"dpi_y"`

	// FromSource is true when the values were read from the input file and
	// false when they are the default.
	FromSource bool `json:"from_source"`
}

// DefaultResolution is used when the source image declares no resolution.
var DefaultResolution = Resolution{X: 300, Y: 300}

func (r Resolution) String() string {
	return fmt.Sprintf("%gx%g dpi", r.X, r.Y)
}

// PixelsPerMeter converts the resolution to the integer pixels-per-meter
// values stored in a PNG pHYs chunk, rounding to the nearest unit.
func (r Resolution) PixelsPerMeter() (x, y uint32) {
	return uint32(math.Floor(r.X/metersPerInch + 0.5)), uint32(math.Floor(r.Y/metersPerInch + 0.5))
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// readResolution extracts the resolution declared in an encoded image.
// The second return value is false when the format carries no resolution or
// the header does not declare one.
func readResolution(data []byte, format string) (Resolution, bool) {
	switch format {
	case "png":
		return pngResolution(data)
	case "jpeg":
		if r, ok := jfifResolution(data); ok {
			return r, true
		}
		return exifResolution(data)
	case "tiff":
		return exifResolution(data)
	case "bmp":
		return bmpResolution(data)
	}
	return Resolution{}, false
}

// pngResolution walks the chunk list up to the first IDAT looking for pHYs.
// Only unit 1 (meter) carries an absolute density; unit 0 is an aspect ratio.
func pngResolution(data []byte) (Resolution, bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return Resolution{}, false
	}
	for off := len(pngSignature); off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		body := off + 8
		if length < 0 || body+length > len(data) {
			return Resolution{}, false
		}
		switch typ {
		case "pHYs":
			if length != 9 || data[body+8] != 1 {
				return Resolution{}, false
			}
			x := binary.BigEndian.Uint32(data[body:])
			y := binary.BigEndian.Uint32(data[body+4:])
			return Resolution{
				X:          float64(x) * metersPerInch,
				Y:          float64(y) * metersPerInch,
				FromSource: true,
			}, true
		case "IDAT", "IEND":
			return Resolution{}, false
		}
		off = body + length + 4
	}
	return Resolution{}, false
}

// jfifResolution reads the density fields of a JFIF APP0 segment.
func jfifResolution(data []byte) (Resolution, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return Resolution{}, false
	}
	for off := 2; off+4 <= len(data); {
		if data[off] != 0xFF {
			return Resolution{}, false
		}
		marker := data[off+1]
		if marker == 0xFF {
			// fill byte
			off++
			continue
		}
		if marker == 0xDA || marker == 0xD9 {
			return Resolution{}, false
		}
		length := int(binary.BigEndian.Uint16(data[off+2:]))
		if length < 2 || off+2+length > len(data) {
			return Resolution{}, false
		}
		seg := data[off+4 : off+2+length]
		if marker == 0xE0 && len(seg) >= 12 && bytes.HasPrefix(seg, []byte("JFIF\x00")) {
			units := seg[7]
			x := float64(binary.BigEndian.Uint16(seg[8:]))
			y := float64(binary.BigEndian.Uint16(seg[10:]))
			switch units {
			case 1:
				return Resolution{X: x, Y: y, FromSource: true}, true
			case 2:
				return Resolution{X: x * cmPerInch, Y: y * cmPerInch, FromSource: true}, true
			}
			return Resolution{}, false
		}
		off += 2 + length
	}
	return Resolution{}, false
}

// exifResolution reads XResolution, YResolution and ResolutionUnit from the
// first IFD of a TIFF file or of the EXIF APP1 segment of a JPEG.
// A missing unit means inches; unit 1 (no absolute unit) declares nothing.
func exifResolution(data []byte) (Resolution, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return Resolution{}, false
	}

	scale := 1.0
	if tag, err := x.Get(exif.ResolutionUnit); err == nil {
		unit, err := tag.Int(0)
		if err != nil {
			return Resolution{}, false
		}
		switch unit {
		case 2:
		case 3:
			scale = cmPerInch
		default:
			return Resolution{}, false
		}
	}

	xres, ok := exifRational(x, exif.XResolution)
	if !ok {
		return Resolution{}, false
	}
	yres, ok := exifRational(x, exif.YResolution)
	if !ok {
		yres = xres
	}
	return Resolution{X: xres * scale, Y: yres * scale, FromSource: true}, true
}

func exifRational(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || num <= 0 || den <= 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// bmpResolution reads biXPelsPerMeter/biYPelsPerMeter from a BITMAPINFOHEADER
// or any of its larger successors.
func bmpResolution(data []byte) (Resolution, bool) {
	if len(data) < 46 || data[0] != 'B' || data[1] != 'M' {
		return Resolution{}, false
	}
	if binary.LittleEndian.Uint32(data[14:]) < 40 {
		return Resolution{}, false
	}
	x := int32(binary.LittleEndian.Uint32(data[38:]))
	y := int32(binary.LittleEndian.Uint32(data[42:]))
	if x <= 0 || y <= 0 {
		return Resolution{}, false
	}
	return Resolution{
		X:          float64(x) * metersPerInch,
		Y:          float64(y) * metersPerInch,
		FromSource: true,
	}, true
}

// physChunk builds a complete pHYs chunk (length, type, data, CRC) for r.
func physChunk(r Resolution) []byte {
	x, y := r.PixelsPerMeter()
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], x)
	binary.BigEndian.PutUint32(chunk[12:], y)
	chunk[16] = 1
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// insertPhys returns png with a pHYs chunk for r placed directly after IHDR.
// Any pHYs chunk already present is dropped.
func insertPhys(png []byte, r Resolution) ([]byte, error) {
	if !bytes.HasPrefix(png, pngSignature) {
		return nil, fmt.Errorf("missing PNG signature")
	}
	off := len(pngSignature)
	if off+8 > len(png) || string(png[off+4:off+8]) != "IHDR" {
		return nil, fmt.Errorf("PNG does not start with IHDR")
	}
	ihdrEnd := off + 8 + int(binary.BigEndian.Uint32(png[off:])) + 4
	if ihdrEnd > len(png) {
		return nil, fmt.Errorf("truncated IHDR chunk")
	}

	out := make([]byte, 0, len(png)+21)
	out = append(out, png[:ihdrEnd]...)
	out = append(out, physChunk(r)...)
	for off = ihdrEnd; off+12 <= len(png); {
		end := off + 12 + int(binary.BigEndian.Uint32(png[off:]))
		if end > len(png) {
			return nil, fmt.Errorf("truncated %q chunk", png[off+4:off+8])
		}
		if string(png[off+4:off+8]) != "pHYs" {
			out = append(out, png[off:end]...)
		}
		off = end
	}
	return out, nil
}
