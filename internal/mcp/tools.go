// ABOUTME: MCP tool definitions and registration for the newschat server
// ABOUTME: Exposes vector search and RAG question answering over stdio
package mcp

import (
	"github.com/harper/newschat/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the news tools with the MCP server
func RegisterTools(server *mcpserver.MCPServer, retriever *core.Retriever, pipeline *core.Pipeline) *Handlers {
	handlers := &Handlers{
		retriever: retriever,
		pipeline:  pipeline,
	}

	// 1. search_news - Semantic search over ingested news chunks
	server.AddTool(mcp.Tool{
		Name:        "search_news",
		Description: "Search ingested news content by semantic similarity. Returns the best-matching stored chunks with scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query for news retrieval",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchNews)

	// 2. ask_news - Full retrieval-augmented answer, aggregated (not streamed)
	server.AddTool(mcp.Tool{
		Name:        "ask_news",
		Description: "Answer a question using retrieval-augmented generation over the ingested news collection.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer with news context",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskNews)

	return handlers
}
