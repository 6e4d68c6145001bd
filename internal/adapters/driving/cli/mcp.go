package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/falcon-go/internal/adapters/driving/mcp"
	"github.com/custodia-labs/falcon-go/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the Falcon API.

Tools:
  falcon_command         execute an operation by id or METHOD,/route override
  falcon_find_operation  search the operation catalog
  falcon_auth_status     report token state, optionally logging in

Resources:
  falcon://collections               collections and operation counts
  falcon://collections/{collection}  operations of one collection
  falcon://operations/{operationId}  a single operation descriptor

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  falcon mcp serve
  falcon mcp serve --port 8080
  falcon mcp serve --keep-token 1m`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Duration("keep-token", 0, "Renew the token in the background at this interval (0 = renew on demand)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if err := ensurePorts(cmd.Context()); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Commander: commander,
		Finder:    operationFinder,
		Catalog:   operationCatalog,
	})
	if err != nil {
		return err
	}

	if interval, _ := cmd.Flags().GetDuration("keep-token"); interval > 0 {
		keeper := services.NewTokenKeeper(commander, interval)
		go keeper.Start(cmd.Context()) //nolint:errcheck
		defer keeper.Stop()            //nolint:errcheck
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
