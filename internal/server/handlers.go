package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"runtime"
	"strconv"

	"github.com/inkplane/page-layout-mcp/internal/batch"
	"github.com/inkplane/page-layout-mcp/internal/deskew"
	"github.com/inkplane/page-layout-mcp/internal/raster"
	"github.com/inkplane/page-layout-mcp/internal/segment"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "page_deskew", "page_segment").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads page images from cache as needed
//  4. Calls into the deskew/segment/batch pipeline
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "page_info":
		return s.handlePageInfo(args)
	case "page_deskew":
		return s.handlePageDeskew(args)
	case "page_segment":
		return s.handlePageSegment(args)
	case "page_analyze":
		return s.handlePageAnalyze(args)
	case "page_extract_panel":
		return s.handlePageExtractPanel(args)
	case "page_visualize":
		return s.handlePageVisualize(args)
	case "page_batch_analyze":
		return s.handlePageBatchAnalyze(args)
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// parseMethod validates a skew estimation method argument.
func parseMethod(m string) (deskew.Method, error) {
	switch m {
	case "", "auto":
		return deskew.MethodAuto, nil
	case "hough":
		return deskew.MethodHough, nil
	case "projection":
		return deskew.MethodProjection, nil
	default:
		return deskew.MethodAuto, fmt.Errorf("unknown method: %q (want auto, hough, or projection)", m)
	}
}

// parseDirection validates a reading direction argument.
func parseDirection(d string) (segment.Direction, error) {
	switch d {
	case "", "rtl":
		return segment.DirectionRTL, nil
	case "ltr":
		return segment.DirectionLTR, nil
	case "ttb":
		return segment.DirectionTTB, nil
	default:
		return "", fmt.Errorf("unknown reading direction: %q (want rtl, ltr, or ttb)", d)
	}
}

// === Page Information Handler ===

type pageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handlePageInfo(args json.RawMessage) (interface{}, error) {
	var a pageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadPageInfo(s.cache, a.Path)
}

// === Deskew Handler ===

type pageDeskewArgs struct {
	Path         string  `json:"path"`
	Method       string  `json:"method"`
	MaxAngle     float64 `json:"max_angle"`
	IncludeImage bool    `json:"include_image"`
}

type pageDeskewResult struct {
	*deskew.Result
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

func (s *Server) handlePageDeskew(args json.RawMessage) (interface{}, error) {
	var a pageDeskewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	method, err := parseMethod(a.Method)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	d := deskew.New(deskew.Config{Method: method, MaxAngle: a.MaxAngle})
	res, err := d.Deskew(img)
	if err != nil {
		return nil, err
	}

	out := pageDeskewResult{Result: res}
	if a.IncludeImage {
		encoded, err := raster.EncodePNGBase64(res.Corrected)
		if err != nil {
			return nil, fmt.Errorf("failed to encode corrected page: %w", err)
		}
		out.ImageBase64 = encoded
		out.MimeType = "image/png"
	}
	return out, nil
}

// === Segmentation Handler ===

type pageSegmentArgs struct {
	Path             string `json:"path"`
	ReadingDirection string `json:"reading_direction"`
	MaxDimension     int    `json:"max_dimension"`
	GapThreshold     int    `json:"gap_threshold"`
}

func (s *Server) handlePageSegment(args json.RawMessage) (interface{}, error) {
	var a pageSegmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dir, err := parseDirection(a.ReadingDirection)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	seg := segment.New(segment.Config{
		ReadingDirection: dir,
		MaxDimension:     a.MaxDimension,
		GapThreshold:     a.GapThreshold,
	})
	return seg.Segment(img)
}

// === Combined Pipeline Handler ===

type pageAnalyzeArgs struct {
	Path             string `json:"path"`
	Method           string `json:"method"`
	ReadingDirection string `json:"reading_direction"`
}

type pageAnalyzeResult struct {
	Deskew       *deskew.Result  `json:"deskew"`
	Segmentation *segment.Result `json:"segmentation"`
}

func (s *Server) handlePageAnalyze(args json.RawMessage) (interface{}, error) {
	var a pageAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	method, err := parseMethod(a.Method)
	if err != nil {
		return nil, err
	}
	dir, err := parseDirection(a.ReadingDirection)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	d := deskew.New(deskew.Config{Method: method})
	dres, err := d.Deskew(img)
	if err != nil {
		return nil, err
	}

	seg := segment.New(segment.Config{ReadingDirection: dir})
	sres, err := seg.Segment(dres.Corrected)
	if err != nil {
		return nil, err
	}

	return &pageAnalyzeResult{Deskew: dres, Segmentation: sres}, nil
}

// === Panel Extraction Handler ===

type pageExtractPanelArgs struct {
	Path   string  `json:"path"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handlePageExtractPanel(args json.RawMessage) (interface{}, error) {
	var a pageExtractPanelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return raster.CropPanel(img, a.X, a.Y, a.Width, a.Height, a.Scale)
}

// === Visualization Handler ===

type pageVisualizeArgs struct {
	Path             string `json:"path"`
	ReadingDirection string `json:"reading_direction"`
}

type pageVisualizeResult struct {
	*raster.OverlayResult
	Layout segment.LayoutType `json:"layout"`
}

func (s *Server) handlePageVisualize(args json.RawMessage) (interface{}, error) {
	var a pageVisualizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dir, err := parseDirection(a.ReadingDirection)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	seg := segment.New(segment.Config{ReadingDirection: dir})
	sres, err := seg.Segment(img)
	if err != nil {
		return nil, err
	}

	boxes := make([]raster.OverlayBox, len(sres.Panels))
	for i, p := range sres.Panels {
		boxes[i] = raster.OverlayBox{
			X:     p.Bounds.X,
			Y:     p.Bounds.Y,
			W:     p.Bounds.W,
			H:     p.Bounds.H,
			Label: strconv.Itoa(p.ReadingOrder),
		}
	}
	overlay, err := raster.RenderOverlay(img, boxes)
	if err != nil {
		return nil, err
	}
	return &pageVisualizeResult{OverlayResult: overlay, Layout: sres.Layout}, nil
}

// === Batch Processing Handler ===

type pageBatchAnalyzeArgs struct {
	Paths            []string `json:"paths"`
	Concurrency      int      `json:"concurrency"`
	ReadingDirection string   `json:"reading_direction"`
}

type batchPageSummary struct {
	Index        int             `json:"index"`
	Path         string          `json:"path"`
	Error        string          `json:"error,omitempty"`
	Deskew       *deskew.Result  `json:"deskew,omitempty"`
	Segmentation *segment.Result `json:"segmentation,omitempty"`
}

type pageBatchAnalyzeResult struct {
	Pages       []batchPageSummary `json:"pages"`
	PageCount   int                `json:"page_count"`
	FailedCount int                `json:"failed_count"`
}

func (s *Server) handlePageBatchAnalyze(args json.RawMessage) (interface{}, error) {
	var a pageBatchAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}
	dir, err := parseDirection(a.ReadingDirection)
	if err != nil {
		return nil, err
	}
	if a.Concurrency == 0 {
		a.Concurrency = runtime.NumCPU()
	}

	// Pages that fail to load stay nil; the pipeline reports them as
	// per-page errors without aborting the batch.
	pages := make([]image.Image, len(a.Paths))
	loadErrs := make([]error, len(a.Paths))
	for i, path := range a.Paths {
		pages[i], loadErrs[i] = s.cache.Load(path)
	}

	results := batch.Process(context.Background(), pages,
		deskew.NewDefault(),
		segment.New(segment.Config{ReadingDirection: dir}),
		batch.Options{Concurrency: a.Concurrency})

	out := pageBatchAnalyzeResult{
		Pages:     make([]batchPageSummary, len(results)),
		PageCount: len(results),
	}
	for i, r := range results {
		summary := batchPageSummary{
			Index:        r.Index,
			Path:         a.Paths[r.Index],
			Deskew:       r.Deskew,
			Segmentation: r.Segmentation,
		}
		if loadErrs[r.Index] != nil {
			summary.Error = loadErrs[r.Index].Error()
			summary.Deskew = nil
			summary.Segmentation = nil
		} else if r.Err != nil {
			summary.Error = r.Err.Error()
		}
		if summary.Error != "" {
			out.FailedCount++
		}
		out.Pages[i] = summary
	}
	return &out, nil
}
