// ABOUTME: MCP command starts a Model Context Protocol server over stdio
// ABOUTME: Enables LLM agents to search and question the news collection
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents.

Runs newschat as an MCP (Model Context Protocol) server over stdio,
exposing semantic news search and retrieval-augmented answering as
tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  newschat mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "newschat": { "command": "newschat", "args": ["mcp"] }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	pipeline := core.NewPipeline(d.retriever, d.client, core.DefaultSystemInstruction)

	srv := mcpserver.NewMCPServer(
		"newschat",
		"0.1.0",
	)
	mcp.RegisterTools(srv, d.retriever, pipeline)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("newschat MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(srv)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
