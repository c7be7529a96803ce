package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/red-desaturate/internal/imaging"
	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_desaturate_red").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	text, err := prettyJSON(result)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_desaturate_red":
		return s.handleDesaturateRed(args)
	case "image_red_mask":
		return s.handleRedMask(args)
	case "image_resolution":
		return s.handleResolution(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// prettyJSON converts a tool result to an indented JSON string.
func prettyJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// overrideArgs holds the optional per-call settings. Pointers distinguish
// "not given" from an explicit zero.
type overrideArgs struct {
	Color    string `json:"color,omitempty"`
	RedMin   *int   `json:"red_min,omitempty"`
	GreenMax *int   `json:"green_max,omitempty"`
	BlueMax  *int   `json:"blue_max,omitempty"`
}

// apply layers the overrides on top of the server's base options.
func (a overrideArgs) apply(base pipeline.Options) (pipeline.Options, error) {
	opts := base
	if a.Color != "" {
		c, err := imaging.ParseColor(a.Color)
		if err != nil {
			return opts, err
		}
		opts.Replacement = c
	}

	bounds := []struct {
		name string
		val  *int
		dst  *uint8
	}{
		{"red_min", a.RedMin, &opts.Threshold.RedMin},
		{"green_max", a.GreenMax, &opts.Threshold.GreenMax},
		{"blue_max", a.BlueMax, &opts.Threshold.BlueMax},
	}
	for _, b := range bounds {
		if b.val == nil {
			continue
		}
		if *b.val < 0 || *b.val > 255 {
			return opts, fmt.Errorf("%s must be 0-255, got %d", b.name, *b.val)
		}
		*b.dst = uint8(*b.val)
	}
	return opts, nil
}

type desaturateRedArgs struct {
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
	Optimize   *bool  `json:"optimize,omitempty"`
	overrideArgs
}

func (s *Server) handleDesaturateRed(args json.RawMessage) (interface{}, error) {
	var a desaturateRedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.InputPath == "" || a.OutputPath == "" {
		return nil, fmt.Errorf("input_path and output_path are required")
	}

	opts, err := a.apply(s.opts)
	if err != nil {
		return nil, err
	}
	if a.Optimize != nil {
		opts.Optimize = *a.Optimize
	}
	return pipeline.Run(a.InputPath, a.OutputPath, opts)
}

type redMaskArgs struct {
	Path    string `json:"path"`
	Preview bool   `json:"preview"`
	overrideArgs
}

// RedMaskResult is the image_red_mask response.
type RedMaskResult struct {
	*pipeline.Report
	Preview *imaging.PreviewResult `json:"preview,omitempty"`
}

func (s *Server) handleRedMask(args json.RawMessage) (interface{}, error) {
	var a redMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts, err := a.apply(s.opts)
	if err != nil {
		return nil, err
	}
	report, err := pipeline.Inspect(a.Path, opts)
	if err != nil {
		return nil, err
	}

	result := &RedMaskResult{Report: report}
	if a.Preview {
		result.Preview, err = imaging.MaskPreview(report.Pixels, report.Mask, opts.Replacement)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type resolutionArgs struct {
	Path string `json:"path"`
}

// ResolutionResult is the image_resolution response.
type ResolutionResult struct {
	Path   string  `json:"path"`
	Format string  `json:"format"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	DPIX   float64 `json:"dpi_x"`
	DPIY   float64 `json:"dpi_y"`

	// FromSource is false when the image declares no resolution and the
	// configured default is reported instead.
	FromSource bool `json:"from_source"`
}

func (s *Server) handleResolution(args json.RawMessage) (interface{}, error) {
	var a resolutionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	src, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res := src.Resolution
	if !res.FromSource && s.opts.DefaultDPI > 0 {
		res.X, res.Y = s.opts.DefaultDPI, s.opts.DefaultDPI
	}
	return &ResolutionResult{
		Path:       a.Path,
		Format:     src.Format,
		Width:      src.Pixels.Width,
		Height:     src.Pixels.Height,
		DPIX:       res.X,
		DPIY:       res.Y,
		FromSource: res.FromSource,
	}, nil
}
