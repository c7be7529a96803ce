package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SaveOptions controls PNG encoding.
type SaveOptions struct {
	// Optimize selects maximum zlib compression. Both settings are lossless;
	// Optimize only trades encode time for a smaller file.
	Optimize bool
}

// DefaultSaveOptions enables optimization.
var DefaultSaveOptions = SaveOptions{Optimize: true}

// CheckOutputPath verifies that path names a PNG file.
//
// Returns a *InvalidFormatError when the extension is missing or is anything
// other than ".png" (case-insensitive).
func CheckOutputPath(path string) error {
	ext := filepath.Ext(path)
	if !strings.EqualFold(ext, ".png") {
		return &InvalidFormatError{Path: path, Ext: ext}
	}
	return nil
}

// Encode writes buf to w as an 8-bit truecolor PNG carrying res in a pHYs
// chunk. Errors are returned as *EncodeError with an empty Path.
func Encode(w io.Writer, buf *PixelBuffer, res Resolution, opts SaveOptions) error {
	data, err := encodePNG(buf, res, opts)
	if err != nil {
		return &EncodeError{Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// Save encodes buf as PNG and writes it to path.
//
// Parameters:
//   - path: Output file path. Must end in ".png".
//   - buf: The pixels to write. Must have non-zero dimensions.
//   - res: Resolution to embed. Written even when it is the default.
//   - opts: Encoding options.
//
// Returns:
//   - *InvalidFormatError if path does not end in ".png".
//   - *EncodeError if encoding fails or the file cannot be written.
//
// The image is written to a temporary file in the destination directory and
// renamed into place only after it has been fully written and closed. On any
// failure no file is left at path.
func Save(path string, buf *PixelBuffer, res Resolution, opts SaveOptions) error {
	if err := CheckOutputPath(path); err != nil {
		return err
	}

	data, err := encodePNG(buf, res, opts)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

func encodePNG(buf *PixelBuffer, res Resolution, opts SaveOptions) ([]byte, error) {
	if buf.Empty() {
		return nil, errors.New("cannot encode zero-dimension image as PNG")
	}

	level := png.DefaultCompression
	if opts.Optimize {
		level = png.BestCompression
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, buf.Image(), imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return nil, fmt.Errorf("png encoder: %w", err)
	}
	return insertPhys(out.Bytes(), res)
}

func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := createTemp(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// createTemp opens a new hidden file next to path. Unlike os.CreateTemp it
// requests mode 0666, so the renamed output gets the permissions the umask
// allows, the same as a file written with os.WriteFile.
func createTemp(path string) (*os.File, error) {
	dir, name := filepath.Split(path)
	for i := 0; ; i++ {
		tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", name, rand.Uint32()))
		f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if errors.Is(err, os.ErrExist) && i < 100 {
			continue
		}
		return f, err
	}
}
