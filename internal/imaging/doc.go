// Package imaging provides the load, detect, recolor and save stages used to
// desaturate red regions of a raster image.
//
// The package works on PixelBuffer, a contiguous RGB raster with explicit
// dimensions, rather than on image.Image directly. Decoded images of any color
// model are normalized to three 8-bit channels on load, and buffers are
// encoded back to 8-bit truecolor PNG on save.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Detection
//
// A pixel is "red" when its red channel is strictly above Threshold.RedMin
// and its green and blue channels are strictly below Threshold.GreenMax and
// Threshold.BlueMax. Boundary values never match.
//
// # Resolution Metadata
//
// Print resolution is read from PNG pHYs chunks, JPEG JFIF headers and BMP
// info headers. When the source carries none, DefaultResolution (300x300 DPI)
// is used. Save always writes a pHYs chunk, so the output declares a
// resolution even when the input did not.
//
// # Error Handling
//
// Failures are reported with typed errors that callers can match with
// errors.As:
//   - *DecodeError: the input is missing, unreadable or not a supported format
//   - *EncodeError: the output cannot be encoded or written
//   - *InvalidFormatError: the output path does not name a PNG file
//
// # Thread Safety
//
// Nothing in this package keeps state between calls. A PixelBuffer is not
// safe for concurrent mutation; each pipeline invocation owns its own buffer.
package imaging
