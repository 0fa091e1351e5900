// ABOUTME: Root Cobra command with global flags for the newschat CLI
// ABOUTME: Wires up all subcommands and shared verbose/quiet/format handling
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███╗   ██╗███████╗██╗    ██╗███████╗ ██████╗██╗  ██╗ █████╗ ████████╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║     ███████║███████║   ██║
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║     ██╔══██║██╔══██║   ██║
██║ ╚████║███████╗╚███╔███╔╝███████║╚██████╗██║  ██║██║  ██║   ██║
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newschat",
		Short: "Retrieval-augmented news chat assistant",
		Long: banner + `
newschat ingests news sites into a vector collection and answers
questions about current events with retrieval-augmented, streamed
responses.

Typical workflow:
  newschat ingest            # scrape, chunk, embed, store
  newschat serve             # start the streaming chat API
  newschat chat              # talk to a running server`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
