// ABOUTME: Interactive terminal chat client against a running newschat server
// ABOUTME: Streams replies incrementally; Ctrl-C cancels the in-flight answer
package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/newschat/internal/chat"
)

var chatEndpoint string

// suggestions shown before the first question, mirroring the web UI
var suggestions = []string{
	"What are today's top world news stories?",
	"Any updates in science and technology?",
	"Summarize the latest sports news",
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a running newschat server",
		Long: `Chat with a running newschat server.

Reads questions from stdin and streams each answer as it is generated.
Ctrl-C cancels the current answer without ending the session; the
partial reply is kept.

Session commands:
  /clear   cancel any in-flight answer and empty the conversation
  /quit    exit`,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatEndpoint, "endpoint", "http://localhost:8080/api/chat", "Chat API endpoint")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	session := chat.NewSession(chatEndpoint)
	out := cmd.OutOrStdout()

	if !quiet {
		fmt.Fprintln(out, "newschat: ask about the news. /clear resets, /quit exits.")
		fmt.Fprintln(out, "Try:")
		for _, s := range suggestions {
			fmt.Fprintf(out, "  %s\n", s)
		}
		fmt.Fprintln(out)
	}

	// Ctrl-C cancels only the in-flight answer. The interrupt is re-armed
	// each turn so a second Ctrl-C at the prompt exits via default handling.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			session.Cancel()
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			session.Clear()
			if !quiet {
				fmt.Fprintln(out, "(conversation cleared)")
			}
			continue
		}

		var printed int
		err := session.Submit(context.Background(), line, func(partial string) {
			// Print only the new tail of the cumulative reply.
			if len(partial) > printed {
				fmt.Fprint(out, partial[printed:])
				printed = len(partial)
			}
		})
		fmt.Fprintln(out)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
}
