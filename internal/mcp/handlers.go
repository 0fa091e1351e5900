// ABOUTME: MCP tool handler implementations for the newschat server
// ABOUTME: search_news wraps the retriever, ask_news drains the streamed pipeline
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/newschat/internal/core"
	"github.com/harper/newschat/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for the news tools
type Handlers struct {
	retriever *core.Retriever
	pipeline  *core.Pipeline
}

// searchResponse is the JSON payload returned by search_news
type searchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []models.SearchResult `json:"results"`
}

// SearchNews handles the search_news tool
func (h *Handlers) SearchNews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	_, results, err := h.retriever.Retrieve(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("news search failed: %v", err)), nil
	}

	responseJSON, err := json.MarshalIndent(searchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AskNews handles the ask_news tool. The streamed pipeline output is
// aggregated into a single text result; MCP tool calls have no streaming
// surface.
func (h *Handlers) AskNews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	conv := models.Conversation{{Role: models.RoleUser, Content: question}}
	stream, err := h.pipeline.Respond(ctx, conv)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer generation failed: %v", err)), nil
	}

	var answer strings.Builder
	for chunk := range stream {
		answer.WriteString(chunk.Content)
		if chunk.Err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("generation stream failed: %v", chunk.Err)), nil
		}
	}

	return mcp.NewToolResultText(answer.String()), nil
}
