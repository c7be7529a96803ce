package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// overrideProperties are the optional per-call settings shared by the tools
// that run detection.
func overrideProperties() map[string]interface{} {
	return map[string]interface{}{
		"color": map[string]interface{}{
			"type":        "string",
			"description": "Replacement color as #RRGGBB. Default #DCDCDC",
		},
		"red_min": map[string]interface{}{
			"type":        "integer",
			"description": "Red channel must be strictly greater than this (0-255). Default 150",
		},
		"green_max": map[string]interface{}{
			"type":        "integer",
			"description": "Green channel must be strictly less than this (0-255). Default 100",
		},
		"blue_max": map[string]interface{}{
			"type":        "integer",
			"description": "Blue channel must be strictly less than this (0-255). Default 100",
		},
	}
}

func withOverrides(props map[string]interface{}) map[string]interface{} {
	for k, v := range overrideProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_desaturate_red",
			Description: "Replace red pixels of an image with a neutral gray and save the result as a lossless PNG, keeping the print resolution (DPI) of the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"input_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the PNG to write (must end in .png)",
					},
					"optimize": map[string]interface{}{
						"type":        "boolean",
						"description": "Use maximum PNG compression. Default true",
						"default":     true,
					},
				}),
				"required": []string{"input_path", "output_path"},
			},
		},
		{
			Name:        "image_red_mask",
			Description: "Count the pixels that image_desaturate_red would replace, without writing anything. Optionally returns a base64 PNG preview with matched pixels highlighted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Include a preview image. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_resolution",
			Description: "Get the print resolution (DPI) declared by an image file, or the default used when it declares none.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
