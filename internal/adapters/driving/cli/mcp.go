package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the ask, sync and status
tools and the sync history resource to AI assistants.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  noticeagent mcp serve
  noticeagent mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "noticeagent": {
        "command": "/path/to/noticeagent",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args:        cobra.NoArgs,
	Annotations: coreServices,
	RunE:        runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Answer: answerService,
		Sync:   syncOrchestrator,
		Status: statusService,
	})
	if err != nil {
		return err
	}

	stop := startScheduler(cmd.Context())
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
