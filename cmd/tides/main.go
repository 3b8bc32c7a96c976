// Tides: rhythmic work-cycle tracker
//
// Tracks named work cycles ("tides") and the flow sessions recorded
// against them, from the command line or as an MCP server.
//
// Usage:
//
//	tides serve                      # Start MCP server (stdio transport)
//	tides create "Deep Work" -t daily
//	tides flow <tide-id> -i strong
//	tides list --active
package main

import (
	"os"

	"github.com/tides-mcp/tides/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
