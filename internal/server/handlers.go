package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/ironsheep/coffee-image/internal/converter"
	"github.com/ironsheep/coffee-image/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_open", "image_rotate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

var errUnknownTool = errors.New("unknown tool")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data carries the error kind.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if s.debug {
		log.Printf("tools/call %s %s", params.Name, params.Arguments)
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if errors.Is(err, errUnknownTool) {
		return s.errorResponse(req.ID, -32602, "Unknown tool", err.Error())
	}
	if err != nil {
		if s.debug {
			log.Printf("tools/call %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolErrorData(err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "image_open":
		return s.handleImageOpen(args)
	case "image_set_format":
		return s.handleImageSetFormat(args)
	case "image_info":
		return s.handleImageInfo()

	// Color Operations
	case "image_grayscale":
		return s.step(func(*warnings) (converter.Ref, error) { return s.session.Grayscale() })
	case "image_invert":
		return s.step(func(*warnings) (converter.Ref, error) { return s.session.Invert() })
	case "image_hue_rotate":
		return s.handleHueRotate(args)

	// Geometry and Filters
	case "image_blur":
		return s.handleBlur(ctx, args)
	case "image_rotate":
		return s.handleRotate(args)

	// Combining
	case "image_add":
		return s.handleAdd(args)
	case "image_threshold":
		return s.handleThreshold(args)
	case "image_mask":
		return s.handleMask(args)
	case "image_composite":
		return s.handleComposite(args)

	// Color Sampling
	case "image_sample_color":
		return s.handleSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleDominantColors(args)

	// Output
	case "image_ascii_art":
		return s.handleASCIIArt(args)
	case "image_save":
		return s.handleSave(args)
	case "image_artifacts":
		return s.handleArtifacts()

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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

// ToolErrorData is the data member of a failed tool call.
type ToolErrorData struct {
	Kind   string `json:"kind"`
	IOKind string `json:"io_kind,omitempty"`
	Error  string `json:"error"`
}

func toolErrorData(err error) ToolErrorData {
	kind := converter.Classify(err)
	d := ToolErrorData{Kind: kind.String(), Error: err.Error()}
	if kind == converter.KindIO {
		d.IOKind = converter.IOKind(err)
	}
	return d
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// StepResult reports the artifact a transform produced, which is now the
// current image.
type StepResult struct {
	Path     string   `json:"path"`
	Format   string   `json:"format"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) stepResult(ref converter.Ref, w warnings) *StepResult {
	return &StepResult{
		Path:     ref.Path(),
		Format:   imaging.FormatFromPath(ref.Path(), s.session.Format()).String(),
		Warnings: w,
	}
}

// step runs a transform on the session and reports the new current image.
func (s *Server) step(fn func(*warnings) (converter.Ref, error)) (interface{}, error) {
	var w warnings
	ref, err := fn(&w)
	if err != nil {
		return nil, err
	}
	return s.stepResult(ref, w), nil
}

// === Session Handlers ===

type imageOpenArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a imageOpenArgs
	if err := decodeArgs("open", args, &a); err != nil {
		return nil, err
	}
	if _, err := s.session.Open(a.Path); err != nil {
		return nil, err
	}
	return s.session.Info()
}

type imageSetFormatArgs struct {
	Format string `json:"format"`
}

func (s *Server) handleImageSetFormat(args json.RawMessage) (interface{}, error) {
	var a imageSetFormatArgs
	if err := decodeArgs("set format", args, &a); err != nil {
		return nil, err
	}
	f, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, invalidArgument("set format", err)
	}
	s.session.SetFormat(f)
	return map[string]string{"format": f.String()}, nil
}

// SessionInfo describes the current image and the session around it.
type SessionInfo struct {
	*imaging.ImageInfo
	OutputFormat string   `json:"output_format"`
	History      []string `json:"history"`
}

func (s *Server) handleImageInfo() (interface{}, error) {
	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	history := s.session.History()
	paths := make([]string, len(history))
	for i, ref := range history {
		paths[i] = ref.Path()
	}
	return &SessionInfo{
		ImageInfo:    info,
		OutputFormat: s.session.Format().String(),
		History:      paths,
	}, nil
}

// === Transform Handlers ===

type degreesArgs struct {
	Degrees Number `json:"degrees"`
}

func (s *Server) handleHueRotate(args json.RawMessage) (interface{}, error) {
	var a degreesArgs
	if err := decodeArgs("hue rotate", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(w *warnings) (converter.Ref, error) {
		return s.session.HueRotate(a.Degrees.Or("degrees", 0, w))
	})
}

func (s *Server) handleRotate(args json.RawMessage) (interface{}, error) {
	var a degreesArgs
	if err := decodeArgs("rotate", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(w *warnings) (converter.Ref, error) {
		return s.session.Rotate(a.Degrees.Or("degrees", 0, w))
	})
}

type imageBlurArgs struct {
	Radius Number `json:"radius"`
}

func (s *Server) handleBlur(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBlurArgs
	if err := decodeArgs("blur", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(w *warnings) (converter.Ref, error) {
		return s.session.Blur(ctx, a.Radius.Or("radius", 0, w))
	})
}

type imageAddArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleAdd(args json.RawMessage) (interface{}, error) {
	var a imageAddArgs
	if err := decodeArgs("add", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(*warnings) (converter.Ref, error) {
		return s.session.Add(a.Path)
	})
}

type cutoffArgs struct {
	Cutoff Number `json:"cutoff"`
}

func (s *Server) defaultCutoff() uint8 {
	return s.session.Converter().Options().Cutoff
}

func (s *Server) handleThreshold(args json.RawMessage) (interface{}, error) {
	var a cutoffArgs
	if err := decodeArgs("threshold", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(w *warnings) (converter.Ref, error) {
		cutoff, err := cutoffArg("threshold", a.Cutoff, s.defaultCutoff(), w)
		if err != nil {
			return converter.Ref{}, err
		}
		return s.session.Threshold(cutoff)
	})
}

// MaskResult names a persisted mask pair.
type MaskResult struct {
	Mask     string   `json:"mask"`
	Inverse  string   `json:"inverse"`
	Cutoff   uint8    `json:"cutoff"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleMask(args json.RawMessage) (interface{}, error) {
	var a cutoffArgs
	if err := decodeArgs("mask", args, &a); err != nil {
		return nil, err
	}
	var w warnings
	cutoff, err := cutoffArg("mask", a.Cutoff, s.defaultCutoff(), &w)
	if err != nil {
		return nil, err
	}
	refs, err := s.session.Mask(cutoff)
	if err != nil {
		return nil, err
	}
	return &MaskResult{
		Mask:     refs.Mask.Path(),
		Inverse:  refs.Inverse.Path(),
		Cutoff:   cutoff,
		Warnings: w,
	}, nil
}

type imageCompositeArgs struct {
	Logo   string `json:"logo"`
	Cutoff Number `json:"cutoff"`
}

func (s *Server) handleComposite(args json.RawMessage) (interface{}, error) {
	var a imageCompositeArgs
	if err := decodeArgs("composite", args, &a); err != nil {
		return nil, err
	}
	return s.step(func(w *warnings) (converter.Ref, error) {
		cutoff, err := cutoffArg("composite", a.Cutoff, s.defaultCutoff(), w)
		if err != nil {
			return converter.Ref{}, err
		}
		return s.session.Composite(a.Logo, cutoff)
	})
}

// === Color Sampling Handlers ===

type sampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs("sample color", args, &a); err != nil {
		return nil, err
	}
	res, err := s.session.SampleColors([]imaging.LabeledPoint{{X: a.X, Y: a.Y}})
	if err != nil {
		return nil, err
	}
	return &res.Samples[0].Color, nil
}

type sampleColorsMultiArgs struct {
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a sampleColorsMultiArgs
	if err := decodeArgs("sample colors", args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, invalidArgument("sample colors", errors.New("points must not be empty"))
	}
	return s.session.SampleColors(a.Points)
}

// defaultDominantColors is the number of colors returned when count is
// omitted.
const defaultDominantColors = 5

type dominantColorsArgs struct {
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := decodeArgs("dominant colors", args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 {
		return nil, invalidArgument("dominant colors", fmt.Errorf("count must not be negative, got %d", a.Count))
	}
	if a.Count == 0 {
		a.Count = defaultDominantColors
	}
	return s.session.DominantColors(a.Count, a.Region)
}

// === Output Handlers ===

type imageASCIIArtArgs struct {
	Scale Number `json:"scale"`
}

// ASCIIArtResult carries a text-art artifact and its content.
type ASCIIArtResult struct {
	Path     string   `json:"path"`
	Scale    int      `json:"scale"`
	Text     string   `json:"text"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleASCIIArt(args json.RawMessage) (interface{}, error) {
	var a imageASCIIArtArgs
	if err := decodeArgs("text art", args, &a); err != nil {
		return nil, err
	}
	var w warnings
	scale, err := scaleArg("text art", a.Scale, s.session.Converter().Options().TextArtScale, &w)
	if err != nil {
		return nil, err
	}

	tf, err := s.session.TextArt(scale)
	if err != nil {
		return nil, err
	}
	text, err := tf.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read text art back: %w", err)
	}
	return &ASCIIArtResult{Path: tf.Path(), Scale: scale, Text: text, Warnings: w}, nil
}

type imageSaveArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := decodeArgs("save", args, &a); err != nil {
		return nil, err
	}

	format := imaging.FormatFromPath(a.Path, s.session.Format())
	if a.Format != "" {
		f, err := imaging.ParseFormat(a.Format)
		if err != nil {
			return nil, invalidArgument("save", err)
		}
		format = f
	}

	if err := s.session.Save(a.Path, format); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(a.Path)
	if err != nil {
		abs = a.Path
	}
	return map[string]string{"path": abs, "format": format.String()}, nil
}

// ArtifactsResult lists the result directory.
type ArtifactsResult struct {
	Dir       string   `json:"dir"`
	Artifacts []string `json:"artifacts"`
}

func (s *Server) handleArtifacts() (interface{}, error) {
	store := s.session.Converter().Store()
	names, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return &ArtifactsResult{Dir: store.Dir(), Artifacts: names}, nil
}
