// Package server implements the MCP (Model Context Protocol) front end of the
// image converter.
//
// The server holds one converter.Session: a client opens a source image, then
// applies transforms one at a time. Each transform writes a new artifact to
// the result directory and makes it the current image, so the next call works
// on the previous result. Source files are never modified.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - image_open: Select the source image
//   - image_set_format: Choose png or jpeg artifacts
//   - image_info: Describe the current image and the chain so far
//
// Transforms (each advances the current image):
//   - image_grayscale, image_invert, image_hue_rotate
//   - image_blur, image_rotate
//   - image_add, image_threshold, image_composite
//
// Color sampling (the current image is unchanged):
//   - image_sample_color: Color at one pixel as hex, RGB, RGBA and HSL
//   - image_sample_colors_multi: Colors at several labeled pixels
//   - image_dominant_colors: Most common colors, optionally within a region
//
// Output (the current image is unchanged):
//   - image_mask: Persist a threshold mask and its inverse
//   - image_ascii_art: Render text art to a .txt artifact
//   - image_save: Write the current image to a chosen path
//   - image_artifacts: List the result directory
//
// Numeric arguments (degrees, radius, cutoff, scale) may be sent as numbers or
// strings. A value that does not parse is replaced by 0 and reported in the
// result's warnings rather than failing the call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: ToolErrorData with the error kind (io_failure,
//     image_decode_failure, dimension_mismatch, parse_failure,
//     dialog_cancelled, invalid_argument, cancelled), the OS classification
//     for I/O failures, and the error text
//
// An empty path where one is required is reported as dialog_cancelled.
package server
