// Package pipeline runs the load → detect → recolor → save sequence that
// replaces red regions of an image with a neutral color.
package pipeline

import (
	"fmt"
	"image"

	"github.com/ironsheep/red-desaturate/internal/imaging"
)

// Options controls one pipeline run.
type Options struct {
	Threshold   imaging.Threshold // red-detection bounds
	Replacement imaging.RGBColor  // color written over matched pixels
	DefaultDPI  float64           // resolution used when the input declares none
	Optimize    bool              // maximum PNG compression
}

// DefaultOptions returns R>150 G<100 B<100, #DCDCDC, 300 dpi, optimized.
func DefaultOptions() Options {
	return Options{
		Threshold:   imaging.DefaultThreshold,
		Replacement: imaging.DefaultReplacement,
		DefaultDPI:  imaging.DefaultResolution.X,
		Optimize:    true,
	}
}

// Result describes a completed run.
type Result struct {
	InputPath     string             `json:"input_path"`
	OutputPath    string             `json:"output_path"`
	Format        string             `json:"input_format"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	MatchedPixels int                `json:"matched_pixels"`
	Resolution    imaging.Resolution `json:"resolution"`
	Replacement   string             `json:"replacement"`
}

// Apply masks and recolors buf in place and returns the number of pixels
// replaced. An empty buffer is left as is and reports zero.
func Apply(buf *imaging.PixelBuffer, opts Options) int {
	if buf.Empty() {
		return 0
	}
	mask := imaging.BuildMask(buf, opts.Threshold)
	return imaging.Recolor(buf, mask, opts.Replacement)
}

// Run executes the full pipeline: load → detect → recolor → save.
//
// The output path is checked before the input is read, so an unsupported
// output extension fails without decoding anything. Errors wrap the typed
// errors of package imaging, which remain reachable through errors.As.
// When Run fails no output file is created.
func Run(inputPath, outputPath string, opts Options) (*Result, error) {
	// 1. Validate output format
	if err := imaging.CheckOutputPath(outputPath); err != nil {
		return nil, err
	}

	// 2. Decode input
	src, err := imaging.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res := resolveResolution(src.Resolution, opts)

	// 3. Detect and recolor
	matched := Apply(src.Pixels, opts)

	// 4. Encode PNG
	if err := imaging.Save(outputPath, src.Pixels, res, imaging.SaveOptions{Optimize: opts.Optimize}); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	return &Result{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		Format:        src.Format,
		Width:         src.Pixels.Width,
		Height:        src.Pixels.Height,
		MatchedPixels: matched,
		Resolution:    res,
		Replacement:   opts.Replacement.Hex(),
	}, nil
}

// Report summarizes what Run would change without writing anything.
type Report struct {
	Path          string              `json:"path"`
	Format        string              `json:"format"`
	Width         int                 `json:"width"`
	Height        int                 `json:"height"`
	Resolution    imaging.Resolution  `json:"resolution"`
	Threshold     imaging.Threshold   `json:"threshold"`
	MatchedPixels int                 `json:"matched_pixels"`
	Percentage    float64             `json:"percentage"`
	MatchBounds   *Bounds             `json:"match_bounds,omitempty"`
	Replacement   imaging.ColorResult `json:"replacement"`

	// Pixels and Mask are kept for callers that render a preview.
	Pixels *imaging.PixelBuffer `json:"-"`
	Mask   *imaging.Mask        `json:"-"`
}

// Bounds is the rectangle enclosing all matched pixels, (X1,Y1) inclusive and
// (X2,Y2) exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Inspect loads path and builds the mask, reporting the match statistics.
func Inspect(path string, opts Options) (*Report, error) {
	src, err := imaging.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	mask := imaging.BuildMask(src.Pixels, opts.Threshold)
	matched := mask.Count()

	report := &Report{
		Path:          path,
		Format:        src.Format,
		Width:         src.Pixels.Width,
		Height:        src.Pixels.Height,
		Resolution:    resolveResolution(src.Resolution, opts),
		Threshold:     opts.Threshold,
		MatchedPixels: matched,
		Replacement:   opts.Replacement.Result(),
		Pixels:        src.Pixels,
		Mask:          mask,
	}
	if total := src.Pixels.Width * src.Pixels.Height; total > 0 {
		report.Percentage = float64(matched) / float64(total) * 100
	}
	if r := mask.Bounds(); !r.Empty() {
		report.MatchBounds = boundsOf(r)
	}
	return report, nil
}

func resolveResolution(res imaging.Resolution, opts Options) imaging.Resolution {
	if res.FromSource || opts.DefaultDPI <= 0 {
		return res
	}
	return imaging.Resolution{X: opts.DefaultDPI, Y: opts.DefaultDPI}
}

func boundsOf(r image.Rectangle) *Bounds {
	return &Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}
