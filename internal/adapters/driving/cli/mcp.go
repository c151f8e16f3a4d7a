package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can act as the
interviewer using your knowledge base.

Tools: retrieve_context, sample_questions, prepare_interview,
evaluate_response, end_session.
Resources: interview://sessions, interview://collection,
interview://sessions/{id}, interview://prompts/{type}.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  pilot mcp serve

  # HTTP mode
  pilot mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "interview-pilot": {
        "command": "/path/to/pilot",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Retriever:   retriever,
		Coach:       coach,
		Evaluator:   evaluator,
		Prompts:     prompts,
		VectorStore: vectorStore,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
