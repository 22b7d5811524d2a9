package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Page Information
		{
			Name:        "page_info",
			Description: "Load a page image and return its dimensions, format, and aspect ratio.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Deskew
		{
			Name:        "page_deskew",
			Description: "Estimate the skew angle of a scanned page and optionally return the corrected image. Supports Hough transform and projection profile estimators, or a hybrid of both.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "hough", "projection"},
						"description": "Skew estimation method (default 'auto' picks the more confident estimator)",
						"default":     "auto",
					},
					"max_angle": map[string]interface{}{
						"type":        "number",
						"description": "Maximum correction angle in degrees (default 45)",
						"default":     45,
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the corrected image as base64-encoded PNG (default false)",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "page_segment",
			Description: "Detect panels on a comic or manga page. Classifies the layout (traditional, grid, or webtoon), finds panel boundaries, and assigns reading order and neighbor links.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"reading_direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rtl", "ltr", "ttb"},
						"description": "Reading direction for panel ordering (default 'rtl' for manga)",
						"default":     "rtl",
					},
					"max_dimension": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum working dimension before downsampling (default 1200)",
						"default":     1200,
					},
					"gap_threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum gutter width in pixels at working resolution (default 15)",
						"default":     15,
					},
				},
				"required": []string{"path"},
			},
		},

		// Combined Pipeline
		{
			Name:        "page_analyze",
			Description: "Run the full pipeline on a page: deskew first, then segment the corrected image into panels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "hough", "projection"},
						"description": "Skew estimation method (default 'auto')",
						"default":     "auto",
					},
					"reading_direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rtl", "ltr", "ttb"},
						"description": "Reading direction for panel ordering (default 'rtl')",
						"default":     "rtl",
					},
				},
				"required": []string{"path"},
			},
		},

		// Panel Extraction
		{
			Name:        "page_extract_panel",
			Description: "Crop a panel region from a page and return it as base64-encoded PNG. Use the bounds reported by page_segment or page_analyze.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Panel left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Panel top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Panel width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Panel height in pixels",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},

		// Visualization
		{
			Name:        "page_visualize",
			Description: "Segment a page and return the image with panel boundaries drawn on top, labeled by reading order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the page image file",
					},
					"reading_direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rtl", "ltr", "ttb"},
						"description": "Reading direction for panel ordering (default 'rtl')",
						"default":     "rtl",
					},
				},
				"required": []string{"path"},
			},
		},

		// Batch Processing
		{
			Name:        "page_batch_analyze",
			Description: "Run deskew and segmentation over multiple pages concurrently. Failures on individual pages are reported per page and do not abort the batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
						},
						"description": "Absolute paths to the page image files, in page order",
					},
					"concurrency": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum pages processed in parallel (default: number of CPUs)",
					},
					"reading_direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rtl", "ltr", "ttb"},
						"description": "Reading direction for panel ordering (default 'rtl')",
						"default":     "rtl",
					},
				},
				"required": []string{"paths"},
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
