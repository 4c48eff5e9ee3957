package cmd

import (
	"github.com/huangsam/metricsgraph/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the metricsgraph MCP server",
	Long:  `Launch an MCP server that allows AI agents to list metrics, generate paths and render charts via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup writes nothing to stdout, which carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
