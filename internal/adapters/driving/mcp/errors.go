// Package mcp provides an MCP (Model Context Protocol) server adapter for archivo.
// It lets AI assistants search the archive and hold conversations with it.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrChatUnavailable is returned by the chat tool when no chat service is wired.
var ErrChatUnavailable = errors.New("mcp: chat service not configured")
