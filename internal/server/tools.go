package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imagePathProperty is shared by every tool's input schema.
var imagePathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Path to the image file (relative paths resolve against the server's image root)",
}

// normalizedCoordinate describes one bounding box edge.
func normalizedCoordinate(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"minimum":     0,
		"maximum":     1,
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "echo_image",
			Description: "Load an image and return it unchanged as a raw frame: a 4-byte big-endian metadata length, JSON metadata (width, height, mode, format), then the uncompressed pixel bytes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": imagePathProperty,
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "rotate_image",
			Description: "Rotate an image by 90 degrees. The canvas expands so width and height swap and nothing is cropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": imagePathProperty,
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"clockwise", "counterclockwise"},
						"description": "Direction to rotate the image",
					},
				},
				"required": []string{"image_path", "direction"},
			},
		},
		{
			Name:        "crop_and_zoom",
			Description: "Crop an image to a normalized bounding box and optionally zoom the result. Values of zoom_factor below 1.0 reduce the size, values above 1.0 enlarge it (Lanczos resampling).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": imagePathProperty,
					"x_min":      normalizedCoordinate("Left boundary of crop box (normalized 0-1)"),
					"y_min":      normalizedCoordinate("Top boundary of crop box (normalized 0-1)"),
					"x_max":      normalizedCoordinate("Right boundary of crop box (normalized 0-1)"),
					"y_max":      normalizedCoordinate("Bottom boundary of crop box (normalized 0-1)"),
					"zoom_factor": map[string]interface{}{
						"type":             "number",
						"exclusiveMinimum": 0,
						"description":      "Scale factor applied after cropping. Default 1.0",
						"default":          1.0,
					},
				},
				"required": []string{"image_path", "x_min", "y_min", "x_max", "y_max"},
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
