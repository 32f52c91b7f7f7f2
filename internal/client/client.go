// Package client talks to an image frame MCP server over its stdio JSON-RPC
// channel and decodes the frames it returns.
//
// A Client either attaches to an existing reader/writer pair (New) or starts
// the server as a child process (Spawn). Calls are serialized; each request
// waits for the response carrying its id before the next is sent.
//
// Basic usage:
//
//	c, err := client.Spawn("image-frame-mcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := c.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	b, err := c.RotateImage("photo.png", "clockwise")
package client

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/ironsheep/image-frame-mcp/internal/frame"
	"github.com/ironsheep/image-frame-mcp/internal/imaging"
)

// ProtocolVersion is the MCP revision sent in the initialize handshake.
const ProtocolVersion = "2024-11-05"

// maxLineSize bounds a single response line. Frames travel base64-encoded on
// one line, so this caps the size of an image the client accepts.
const maxLineSize = 256 * 1024 * 1024

// RPCError is a JSON-RPC error returned by the server.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ToolError is a failed tool call. Kind is the server's error classification,
// such as "InvalidArgument" or "SourceNotFound".
type ToolError struct {
	Tool    string
	Kind    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed (%s): %s", e.Tool, e.Kind, e.Message)
}

// Is reports whether target is the sentinel matching e's kind, so callers can
// test tool failures with errors.Is(err, imaging.ErrInvalidArgument).
func (e *ToolError) Is(target error) bool {
	switch e.Kind {
	case "InvalidArgument":
		return target == imaging.ErrInvalidArgument
	case "SourceNotFound":
		return target == imaging.ErrSourceNotFound
	case "FrameCorrupt":
		return target == frame.ErrFrameCorrupt
	}
	return false
}

// Tool describes one tool advertised by tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ServerInfo identifies the server, as reported by initialize.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      *int64      `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type response struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

type contentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

type callResult struct {
	Content           []contentItem `json:"content"`
	IsError           bool          `json:"isError"`
	StructuredContent *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"structuredContent"`
}

// Client is an MCP client bound to one server connection.
type Client struct {
	mu      sync.Mutex
	enc     *json.Encoder
	scanner *bufio.Scanner
	w       io.Writer
	cmd     *exec.Cmd
	nextID  int64
	info    ServerInfo
}

// New returns a client that writes requests to w and reads responses from r.
// If w is an io.Closer, Close closes it.
func New(r io.Reader, w io.Writer) *Client {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Client{
		enc:     json.NewEncoder(w),
		scanner: scanner,
		w:       w,
	}
}

// Spawn starts the server command and attaches a client to its stdin and
// stdout. The server's stderr is passed through to this process.
func Spawn(name string, args ...string) (*Client, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open server stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server %s: %w", name, err)
	}

	c := New(stdout, stdin)
	c.cmd = cmd
	return c, nil
}

// Close ends the session. The server sees end of input and exits; for a
// spawned server Close waits for the process.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if closer, ok := c.w.(io.Closer); ok {
		err = closer.Close()
	}
	if c.cmd != nil {
		if werr := c.cmd.Wait(); werr != nil && err == nil {
			err = fmt.Errorf("server exited: %w", werr)
		}
		c.cmd = nil
	}
	return err
}

// Initialize performs the MCP handshake and records the server's identity.
func (c *Client) Initialize() error {
	params := map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "image-frame-client",
			"version": "1.0.0",
		},
	}

	var result struct {
		ProtocolVersion string     `json:"protocolVersion"`
		ServerInfo      ServerInfo `json:"serverInfo"`
	}
	if err := c.call("initialize", params, &result); err != nil {
		return err
	}
	c.info = result.ServerInfo

	return c.notify("notifications/initialized")
}

// ServerInfo returns the identity reported by Initialize.
func (c *Client) ServerInfo() ServerInfo {
	return c.info
}

// Ping checks that the server is responsive.
func (c *Client) Ping() error {
	return c.call("ping", nil, nil)
}

// ListTools returns the tools the server advertises.
func (c *Client) ListTools() ([]Tool, error) {
	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := c.call("tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool and decodes the frame it returns.
//
// # Errors
//
//   - Returns *ToolError if the tool reported a failure
//   - Returns *RPCError for protocol faults such as an unknown tool
//   - Returns an error wrapping frame.ErrFrameCorrupt if the result cannot
//     be decoded
func (c *Client) CallTool(name string, args map[string]interface{}) (*frame.Bitmap, error) {
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}

	var result callResult
	if err := c.call("tools/call", params, &result); err != nil {
		return nil, err
	}

	if result.IsError {
		te := &ToolError{Tool: name, Kind: "Internal"}
		if result.StructuredContent != nil {
			te.Kind = result.StructuredContent.Kind
			te.Message = result.StructuredContent.Message
		} else if len(result.Content) > 0 {
			te.Message = result.Content[0].Text
		}
		return nil, te
	}

	for _, item := range result.Content {
		if item.Type != "image" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(item.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 image data: %v", frame.ErrFrameCorrupt, err)
		}
		return frame.Decode(data)
	}
	return nil, fmt.Errorf("tool %s returned no image content", name)
}

// EchoImage returns the image at path unmodified.
func (c *Client) EchoImage(path string) (*frame.Bitmap, error) {
	return c.CallTool("echo_image", map[string]interface{}{
		"image_path": path,
	})
}

// RotateImage returns the image at path turned a quarter turn in direction,
// which is "clockwise" or "counterclockwise".
func (c *Client) RotateImage(path, direction string) (*frame.Bitmap, error) {
	return c.CallTool("rotate_image", map[string]interface{}{
		"image_path": path,
		"direction":  direction,
	})
}

// CropAndZoom returns the region of the image at path covered by box, scaled
// by zoom.
func (c *Client) CropAndZoom(path string, box imaging.BoundingBox, zoom float64) (*frame.Bitmap, error) {
	return c.CallTool("crop_and_zoom", map[string]interface{}{
		"image_path":  path,
		"x_min":       box.XMin,
		"y_min":       box.YMin,
		"x_max":       box.XMax,
		"y_max":       box.YMax,
		"zoom_factor": zoom,
	})
}

// call sends one request and decodes the matching response's result into
// result, which may be nil.
func (c *Client) call(method string, params, result interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if err := c.enc.Encode(&request{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	wantID := strconv.FormatInt(id, 10)
	for {
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return fmt.Errorf("failed to read %s response: %w", method, err)
			}
			return fmt.Errorf("failed to read %s response: %w", method, io.ErrUnexpectedEOF)
		}

		var resp response
		if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
			return fmt.Errorf("invalid response to %s: %w", method, err)
		}
		if string(resp.ID) != wantID {
			// stale or unsolicited message
			continue
		}

		if resp.Error != nil {
			return resp.Error
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("invalid %s result: %w", method, err)
		}
		return nil
	}
}

// notify sends a notification, which gets no response.
func (c *Client) notify(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enc.Encode(&request{JSONRPC: "2.0", Method: method}); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}
	return nil
}

// IsToolError reports whether err is a tool failure of the given kind.
func IsToolError(err error, kind string) bool {
	var te *ToolError
	return errors.As(err, &te) && te.Kind == kind
}
