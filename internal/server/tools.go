package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// numberProp describes a numeric argument. Strings are accepted too.
func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        []string{"number", "string"},
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

const cutoffDescription = "Luminance (0-255) above which a pixel counts as foreground. Defaults to the server's configured cutoff (127 unless overridden)."

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "image_open",
			Description: "Select the source image for subsequent operations. The file itself is never modified; every operation writes a new artifact that becomes the current image.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": stringProp("Path to the image file (PNG, JPEG, GIF, BMP, TIFF or WebP)"),
			}, "path"),
		},
		{
			Name:        "image_set_format",
			Description: "Choose the encoding of artifacts produced from now on.",
			InputSchema: objectSchema(map[string]interface{}{
				"format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"png", "jpg", "jpeg"},
					"description": "Artifact format. Default png.",
				},
			}, "format"),
		},
		{
			Name:        "image_info",
			Description: "Describe the current image: dimensions, format, size on disk, output format and the chain of artifacts since image_open.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},

		// Color Operations
		{
			Name:        "image_grayscale",
			Description: "Convert the current image to grayscale using luminance 0.299R + 0.587G + 0.114B.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "image_invert",
			Description: "Invert the color channels of the current image. Alpha is kept.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "image_hue_rotate",
			Description: "Shift the hue of every pixel of the current image. Gray pixels are unchanged.",
			InputSchema: objectSchema(map[string]interface{}{
				"degrees": numberProp("Hue shift in degrees; any value, wrapped to 0-360"),
			}, "degrees"),
		},

		// Geometry and Filters
		{
			Name:        "image_blur",
			Description: "Apply a Gaussian blur to the current image.",
			InputSchema: objectSchema(map[string]interface{}{
				"radius": numberProp("Blur radius in pixels; 0 or less leaves the image unchanged"),
			}, "radius"),
		},
		{
			Name:        "image_rotate",
			Description: "Rotate the current image about its center. The canvas grows to the rotated bounding box and uncovered corners are transparent.",
			InputSchema: objectSchema(map[string]interface{}{
				"degrees": numberProp("Rotation angle in degrees"),
			}, "degrees"),
		},

		// Combining
		{
			Name:        "image_add",
			Description: "Add a second image of the same size to the current image, saturating each channel at 255.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": stringProp("Path to the image to add"),
			}, "path"),
		},
		{
			Name:        "image_threshold",
			Description: "Replace the current image with a black-and-white mask: black where luminance exceeds the cutoff, white elsewhere. The result is always stored as PNG.",
			InputSchema: objectSchema(map[string]interface{}{
				"cutoff": numberProp(cutoffDescription),
			}),
		},
		{
			Name:        "image_mask",
			Description: "Save the threshold mask of the current image and its inverse as PNG artifacts without changing the current image.",
			InputSchema: objectSchema(map[string]interface{}{
				"cutoff": numberProp(cutoffDescription),
			}),
		},
		{
			Name:        "image_composite",
			Description: "Overlay a logo onto the top-left corner of the current image. The logo's bright pixels replace the image; its dark pixels let the image show through.",
			InputSchema: objectSchema(map[string]interface{}{
				"logo":   stringProp("Path to the logo image"),
				"cutoff": numberProp(cutoffDescription),
			}, "logo"),
		},

		// Color Sampling (the current image is unchanged)
		{
			Name:        "image_sample_color",
			Description: "Get the exact color of the current image at a pixel coordinate, as hex, RGB, RGBA and HSL.",
			InputSchema: objectSchema(map[string]interface{}{
				"x": integerProp("X coordinate (0-based, from left)"),
				"y": integerProp("Y coordinate (0-based, from top)"),
			}, "x", "y"),
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get the colors of the current image at several pixel coordinates in a single call.",
			InputSchema: objectSchema(map[string]interface{}{
				"points": map[string]interface{}{
					"type": "array",
					"items": objectSchema(map[string]interface{}{
						"x":     integerProp("X coordinate (0-based, from left)"),
						"y":     integerProp("Y coordinate (0-based, from top)"),
						"label": stringProp("Optional label for this point"),
					}, "x", "y"),
					"description": "Points to sample",
				},
			}, "points"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Return the most common colors of the current image, grouping channels to multiples of 16. Transparent pixels are ignored.",
			InputSchema: objectSchema(map[string]interface{}{
				"count": integerProp("Number of colors to return (default 5)"),
				"region": objectSchema(map[string]interface{}{
					"x1": integerProp("Left edge (inclusive)"),
					"y1": integerProp("Top edge (inclusive)"),
					"x2": integerProp("Right edge (exclusive)"),
					"y2": integerProp("Bottom edge (exclusive)"),
				}),
			}),
		},

		// Output
		{
			Name:        "image_ascii_art",
			Description: "Render the current image as text art using the ramp \" .,-~+=@\", written to a .txt artifact and returned. The current image is unchanged.",
			InputSchema: objectSchema(map[string]interface{}{
				"scale": numberProp("Sampling stride: one column every scale pixels, one row every 2*scale. Defaults to the configured scale (4 unless overridden)."),
			}),
		},
		{
			Name:        "image_save",
			Description: "Write the current image to a destination of your choice.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": stringProp("Destination file path"),
				"format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"png", "jpg", "jpeg"},
					"description": "Encoding; defaults to the destination's extension, then the session format",
				},
			}, "path"),
		},
		{
			Name:        "image_artifacts",
			Description: "List the artifacts currently in the result directory.",
			InputSchema: objectSchema(map[string]interface{}{}),
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
