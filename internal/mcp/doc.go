// Package mcp exposes a UCI engine as a Model Context Protocol server.
//
// The server registers an analyze_position tool backed by an Analyzer and
// serves it over any MCP transport. Tools can also be invoked directly by
// name, which is how the tool handlers are exercised without a client.
package mcp
