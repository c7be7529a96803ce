package imaging

import "fmt"

// DecodeError reports that an input image could not be read or decoded.
type DecodeError struct {
	Path string // Input path, empty for in-memory decodes
	Err  error  // Underlying I/O or format error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports that an output image could not be encoded or written.
type EncodeError struct {
	Path string // Output path, empty for in-memory encodes
	Err  error  // Underlying I/O or encoder error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to encode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to encode image %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// InvalidFormatError reports an output path whose extension does not match
// the lossless PNG encoding produced by Save.
type InvalidFormatError struct {
	Path string
	Ext  string
}

func (e *InvalidFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("output %s has no extension, want .png", e.Path)
	}
	return fmt.Sprintf("output %s has extension %q, want .png", e.Path, e.Ext)
}
