// Package server implements an MCP (Model Context Protocol) server that
// exposes red desaturation as tools.
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
//   - image_desaturate_red: Replace red pixels and write a PNG
//   - image_red_mask: Count (and optionally preview) the pixels that would change
//   - image_resolution: Report the DPI an image declares
//
// Detection tools accept color, red_min, green_max and blue_max to override
// the server's configured defaults for a single call.
//
// # State
//
// The server keeps no image state between calls. Every tool call reads its
// input from disk, so edits to a file are seen by the next call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(pipeline.DefaultOptions())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
