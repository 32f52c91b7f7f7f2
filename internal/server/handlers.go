package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
	"github.com/ironsheep/image-frame-mcp/internal/imaging"
)

// DefaultFormat is the advisory frame format used for bitmaps that were not
// loaded from a file, such as rotated or cropped results.
const DefaultFormat = "png"

// Error kinds reported in the structuredContent of a failed tool call.
const (
	KindInvalidArgument = "InvalidArgument"
	KindSourceNotFound  = "SourceNotFound"
	KindFrameCorrupt    = "FrameCorrupt"
	KindRateLimited     = "RateLimited"
	KindInternal        = "Internal"
)

// errUnknownTool is returned by executeTool for names it does not dispatch.
var errUnknownTool = errors.New("unknown tool")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "echo_image", "crop_and_zoom").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// A successful call returns the result bitmap as a base64 frame in MCP's image
// content format:
//
//	{
//	  "content": [{"type": "image", "data": "<base64 frame>", "mimeType": "image/png"}]
//	}
//
// Tool failures are not JSON-RPC errors. They return a text content item with
// isError set, plus a structured kind the caller can test:
//
//	{
//	  "content": [{"type": "text", "text": "Error executing tool crop_and_zoom: ..."}],
//	  "isError": true,
//	  "structuredContent": {"kind": "InvalidArgument", "message": "..."}
//	}
//
// Unparsable params and unknown tool names are JSON-RPC errors with code -32602.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	bitmap, err := s.call(params.Name, params.Arguments)
	if errors.Is(err, errUnknownTool) {
		return s.errorResponse(req.ID, -32602, "Unknown tool", err.Error())
	}
	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  toolErrorResult(params.Name, err),
		}
	}

	format := bitmap.FormatOr(DefaultFormat)
	data := frame.Encode(bitmap, DefaultFormat)

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type":     "image",
					"data":     base64.StdEncoding.EncodeToString(data),
					"mimeType": "image/" + format,
				},
			},
		},
	}
}

// toolErrorResult builds the isError result for a failed tool call.
func toolErrorResult(name string, err error) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": fmt.Sprintf("Error executing tool %s: %v", name, err),
			},
		},
		"isError": true,
		"structuredContent": map[string]interface{}{
			"kind":    errorKind(err),
			"message": err.Error(),
		},
	}
}

// errorKind classifies err for the structuredContent of a failed call.
func errorKind(err error) string {
	switch {
	case errors.Is(err, imaging.ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, imaging.ErrSourceNotFound):
		return KindSourceNotFound
	case errors.Is(err, frame.ErrFrameCorrupt):
		return KindFrameCorrupt
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	default:
		return KindInternal
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the imaging operation, which loads the source image
//  4. Returns the result bitmap or error
func (s *Server) executeTool(name string, args json.RawMessage) (*frame.Bitmap, error) {
	switch name {
	case "echo_image":
		return s.handleEchoImage(args)
	case "rotate_image":
		return s.handleRotateImage(args)
	case "crop_and_zoom":
		return s.handleCropAndZoom(args)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
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

// unmarshalArgs decodes tool arguments, reporting malformed JSON as an invalid
// argument. Missing arguments decode as an empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", imaging.ErrInvalidArgument, err)
	}
	return nil
}

type echoImageArgs struct {
	ImagePath string `json:"image_path"`
}

func (s *Server) handleEchoImage(args json.RawMessage) (*frame.Bitmap, error) {
	var a echoImageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.Echo(s.source, a.ImagePath)
}

type rotateImageArgs struct {
	ImagePath string `json:"image_path"`
	Direction string `json:"direction"`
}

func (s *Server) handleRotateImage(args json.RawMessage) (*frame.Bitmap, error) {
	var a rotateImageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	dir, err := imaging.ParseDirection(a.Direction)
	if err != nil {
		return nil, err
	}
	return imaging.Rotate(s.source, a.ImagePath, dir)
}

type cropAndZoomArgs struct {
	ImagePath string   `json:"image_path"`
	XMin      *float64 `json:"x_min"`
	YMin      *float64 `json:"y_min"`
	XMax      *float64 `json:"x_max"`
	YMax      *float64 `json:"y_max"`
	// ZoomFactor is a pointer so an explicit 0 is rejected rather than
	// mistaken for the 1.0 default.
	ZoomFactor *float64 `json:"zoom_factor"`
}

func (s *Server) handleCropAndZoom(args json.RawMessage) (*frame.Bitmap, error) {
	var a cropAndZoomArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.XMin == nil || a.YMin == nil || a.XMax == nil || a.YMax == nil {
		return nil, fmt.Errorf("%w: x_min, y_min, x_max and y_max are required", imaging.ErrInvalidArgument)
	}
	zoom := 1.0
	if a.ZoomFactor != nil {
		zoom = *a.ZoomFactor
	}

	box := imaging.BoundingBox{XMin: *a.XMin, YMin: *a.YMin, XMax: *a.XMax, YMax: *a.YMax}
	return imaging.CropAndZoom(s.source, a.ImagePath, box, zoom)
}
