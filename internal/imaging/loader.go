package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Source is a decoded input image ready for processing.
type Source struct {
	// Pixels holds the decoded raster, normalized to three 8-bit channels.
	Pixels *PixelBuffer

	// Resolution is the declared print density, or DefaultResolution when
	// the file declares none.
	Resolution Resolution

	// Format is the decoder name reported by the image registry, e.g.
	// "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string
}

// Load reads and decodes the image file at path.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats
//     are PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - *Source: The normalized pixels, resolution and format name.
//   - error: A *DecodeError if the file cannot be opened, read or decoded.
//
// The file handle is closed before Load returns on every path. The whole
// image is held in memory.
func Load(path string) (*Source, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	src, err := decode(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return src, nil
}

// Decode decodes an in-memory encoded image. Errors are returned as
// *DecodeError with an empty Path.
func Decode(data []byte) (*Source, error) {
	src, err := decode(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return src, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*Source, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	res, ok := readResolution(data, format)
	if !ok {
		res = DefaultResolution
	}

	return &Source{
		Pixels:     FromImage(img),
		Resolution: res,
		Format:     format,
	}, nil
}
