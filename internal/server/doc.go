// Package server implements the MCP (Model Context Protocol) server for the
// image frame tools.
//
// The server exposes three image operations and returns every result as a raw
// frame (see package frame), so a client can rebuild the exact bitmap the
// operation produced without any lossy re-encoding.
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
//   - echo_image: Return the image unchanged
//   - rotate_image: Quarter-turn clockwise or counterclockwise
//   - crop_and_zoom: Crop a normalized bounding box, then scale
//
// Results are MCP image content items whose data field is the base64 of the
// frame bytes. The mimeType reflects the advisory format in the frame
// metadata; the payload itself is never PNG or JPEG encoded.
//
// # Error Handling
//
// Tool failures are returned as a normal result with isError set, a text item
// of the form "Error executing tool <name>: <error>", and structuredContent
// carrying a kind (InvalidArgument, SourceNotFound, FrameCorrupt, RateLimited,
// or Internal). Malformed requests and unknown tools are JSON-RPC errors.
//
// # Middleware
//
// Tool calls pass through a middleware chain: logging (failures always, every
// call at debug level) and an optional token-bucket rate limit.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
