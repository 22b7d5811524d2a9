// Package server implements the MCP (Model Context Protocol) server for page layout analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the deskew and
// panel segmentation pipeline through the MCP protocol. It's designed to work
// with Claude and other MCP-compatible clients, enabling AI systems to reason
// about scanned manga, comic, and webtoon pages.
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
// The server provides 7 page analysis tools:
//
//   - page_info: Load a page and get dimensions, format, aspect ratio
//   - page_deskew: Estimate and correct page skew
//   - page_segment: Detect panels, layout type, reading order, neighbors
//   - page_analyze: Deskew then segment in one call
//   - page_extract_panel: Crop a panel region as base64 PNG
//   - page_visualize: Render panel boundaries over the page
//   - page_batch_analyze: Analyze multiple pages concurrently
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded pages. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
