package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/red-desaturate/internal/imaging"
	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

// createTestImageFile creates a test image file and returns its path.
// The left half is red, the right half is c.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, c)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unpacks the JSON text content of a successful response.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %#v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func TestHandleToolsCall_DesaturateRed(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 10, 4, color.RGBA{0, 0, 255, 255})
	out := filepath.Join(t.TempDir(), "out.png")

	resp := callTool(t, s, "image_desaturate_red", map[string]interface{}{
		"input_path":  in,
		"output_path": out,
	})

	var result pipeline.Result
	decodeToolResult(t, resp, &result)
	if result.MatchedPixels != 20 {
		t.Errorf("MatchedPixels: got %d, want 20", result.MatchedPixels)
	}
	if result.Width != 10 || result.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 10x4", result.Width, result.Height)
	}

	src, err := imaging.Load(out)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if got := src.Pixels.At(0, 0); got != imaging.DefaultReplacement {
		t.Errorf("red pixel: got %+v, want %+v", got, imaging.DefaultReplacement)
	}
	if got := src.Pixels.At(9, 3); got != (imaging.RGBColor{B: 255}) {
		t.Errorf("blue pixel: got %+v, want unchanged", got)
	}
}

func TestHandleToolsCall_DesaturateRed_Overrides(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 4, 1, color.RGBA{0, 0, 0, 255})
	out := filepath.Join(t.TempDir(), "out.png")

	resp := callTool(t, s, "image_desaturate_red", map[string]interface{}{
		"input_path":  in,
		"output_path": out,
		"color":       "#000080",
		"optimize":    false,
	})

	var result pipeline.Result
	decodeToolResult(t, resp, &result)
	if result.Replacement != "#000080" {
		t.Errorf("Replacement: got %s, want #000080", result.Replacement)
	}

	src, err := imaging.Load(out)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if got := src.Pixels.At(0, 0); got != (imaging.RGBColor{B: 128}) {
		t.Errorf("replaced pixel: got %+v, want (0,0,128)", got)
	}
}

func TestHandleToolsCall_DesaturateRed_Errors(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 2, 2, color.RGBA{0, 0, 0, 255})
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{
			"missing paths",
			map[string]interface{}{},
			"required",
		},
		{
			"unreadable input",
			map[string]interface{}{"input_path": "/nonexistent.png", "output_path": filepath.Join(dir, "a.png")},
			"decode",
		},
		{
			"jpeg output",
			map[string]interface{}{"input_path": in, "output_path": filepath.Join(dir, "b.jpg")},
			".png",
		},
		{
			"bad color",
			map[string]interface{}{"input_path": in, "output_path": filepath.Join(dir, "c.png"), "color": "nope"},
			"invalid color",
		},
		{
			"bound out of range",
			map[string]interface{}{"input_path": in, "output_path": filepath.Join(dir, "d.png"), "red_min": 300},
			"red_min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "image_desaturate_red", tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
			data, _ := resp.Error.Data.(string)
			if !strings.Contains(data, tt.contains) {
				t.Errorf("Error data %q should contain %q", data, tt.contains)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed calls left %d files behind", len(entries))
	}
}

func TestHandleToolsCall_RedMask(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 8, 2, color.RGBA{255, 255, 255, 255})

	resp := callTool(t, s, "image_red_mask", map[string]interface{}{
		"path":    in,
		"preview": true,
	})

	var result struct {
		MatchedPixels int     `json:"matched_pixels"`
		Percentage    float64 `json:"percentage"`
		MatchBounds   *struct {
			X1, Y1, X2, Y2 int
		} `json:"match_bounds"`
		Preview *imaging.PreviewResult `json:"preview"`
	}
	decodeToolResult(t, resp, &result)

	if result.MatchedPixels != 8 {
		t.Errorf("MatchedPixels: got %d, want 8", result.MatchedPixels)
	}
	if result.Percentage != 50 {
		t.Errorf("Percentage: got %g, want 50", result.Percentage)
	}
	if result.MatchBounds == nil || result.MatchBounds.X2 != 4 || result.MatchBounds.Y2 != 2 {
		t.Errorf("MatchBounds: got %+v, want (0,0)-(4,2)", result.MatchBounds)
	}
	if result.Preview == nil || result.Preview.ImageBase64 == "" {
		t.Error("preview requested but missing")
	}

	// The source file is left untouched.
	src, err := imaging.Load(in)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := src.Pixels.At(0, 0); got != (imaging.RGBColor{R: 255}) {
		t.Errorf("source pixel changed: %+v", got)
	}
}

func TestHandleToolsCall_RedMask_ThresholdOverride(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 2, 1, color.RGBA{255, 0, 0, 255})

	resp := callTool(t, s, "image_red_mask", map[string]interface{}{
		"path":    in,
		"red_min": 255,
	})

	var result struct {
		MatchedPixels int `json:"matched_pixels"`
	}
	decodeToolResult(t, resp, &result)
	if result.MatchedPixels != 0 {
		t.Errorf("MatchedPixels: got %d, want 0 with red_min=255", result.MatchedPixels)
	}
}

func TestHandleToolsCall_Resolution(t *testing.T) {
	s := newTestServer()
	in := createTestImageFile(t, 6, 3, color.RGBA{0, 0, 0, 255})

	var result ResolutionResult
	decodeToolResult(t, callTool(t, s, "image_resolution", map[string]interface{}{"path": in}), &result)

	if result.FromSource {
		t.Error("plain PNG should not declare a resolution")
	}
	if result.DPIX != 300 || result.DPIY != 300 {
		t.Errorf("DPI: got (%g,%g), want (300,300)", result.DPIX, result.DPIY)
	}
	if result.Format != "png" || result.Width != 6 || result.Height != 3 {
		t.Errorf("got %+v", result)
	}
}

func TestHandleToolsCall_Resolution_AfterDesaturate(t *testing.T) {
	opts := pipeline.DefaultOptions()
	opts.DefaultDPI = 150
	s := New(opts)
	in := createTestImageFile(t, 2, 2, color.RGBA{0, 0, 0, 255})
	out := filepath.Join(t.TempDir(), "out.png")

	if resp := callTool(t, s, "image_desaturate_red", map[string]interface{}{
		"input_path":  in,
		"output_path": out,
	}); resp.Error != nil {
		t.Fatalf("desaturate failed: %+v", resp.Error)
	}

	var result ResolutionResult
	decodeToolResult(t, callTool(t, s, "image_resolution", map[string]interface{}{"path": out}), &result)
	if !result.FromSource {
		t.Error("output should declare a resolution")
	}
	if result.DPIX < 149.9 || result.DPIX > 150.1 {
		t.Errorf("DPIX: got %g, want ~150", result.DPIX)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	resp := callTool(t, newTestServer(), "image_crop", map[string]interface{}{})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Fatalf("expected -32000 error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Fatalf("expected -32602 error, got %+v", resp.Error)
	}
}

func TestPrettyJSON(t *testing.T) {
	text, err := prettyJSON(map[string]int{"width": 2})
	if err != nil {
		t.Fatalf("prettyJSON failed: %v", err)
	}
	if text != "{\n  \"width\": 2\n}" {
		t.Errorf("got %q", text)
	}

	if _, err := prettyJSON(map[string]interface{}{"bad": make(chan int)}); err == nil {
		t.Error("prettyJSON should report values JSON cannot encode")
	}
}
