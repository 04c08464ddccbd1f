package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gcgcards/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This allows AI assistants to search cards, read score breakdowns and save
weighted adjustments.

Add to the assistant's MCP server config:

{
  "mcpServers": {
    "gcgcards": {
      "command": "/path/to/gcgcards",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Check if MCP is enabled
	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	a := newApp(cfg, logger)
	defer a.Close()

	opts := []mcp.Option{
		mcp.WithLogger(logger.Named("mcp")),
		mcp.WithVersion(version),
	}
	if a.journal != nil {
		opts = append(opts, mcp.WithJournal(a.journal))
	}
	server := mcp.New(a.backend, cfg, opts...)

	// Handle interrupt
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// Run server
	return server.Start(ctx)
}
