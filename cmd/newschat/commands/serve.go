// ABOUTME: Serve command starts the streaming chat HTTP API
// ABOUTME: Builds the pipeline from env config and runs until interrupted
package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/server"
	"github.com/joho/godotenv"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		Long: `Start the chat API server.

Serves POST /api/chat: embeds the latest user message, retrieves similar
news chunks from the vector collection, and streams a generated answer
back as plain text.`,
		RunE: runServe,
		Example: `  # Serve on the configured address (NEWSCHAT_ADDR, default :8080)
  newschat serve

  # Serve on an explicit address
  newschat serve --addr :9090`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides NEWSCHAT_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = d.cfg.ListenAddr
	}

	pipeline := core.NewPipeline(d.retriever, d.client, core.DefaultSystemInstruction)
	srv := server.New(pipeline, addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
