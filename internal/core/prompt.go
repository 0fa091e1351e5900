// ABOUTME: PromptBuilder composes system instruction, context, history, question
// ABOUTME: Deterministic string assembly; prompt size is deliberately unbounded
package core

import (
	"encoding/json"
	"fmt"

	"github.com/harper/newschat/internal/models"
)

// promptDelimiter separates the instruction, the retrieved context, and the
// conversation section of the assembled prompt.
const promptDelimiter = "------------------------"

// DefaultSystemInstruction is the assistant persona and formatting rules.
const DefaultSystemInstruction = `You are a helpful AI assistant. Use this context to answer questions and provide General question and answers.

You are an AI-powered news chatbot. Your job is to provide **daily news updates** in a clean, organized way. News like sports, politics, technology, and entertainment.
You will receive a prompt asking for news updates. Your task is to summarize the latest news articles and present them in a clear format.

➡️ Format:
- Respond in **bullet points** only.
- Group news by sections: 🌍 World News, 🇮🇳 India News, 🏙️ Local News (if applicable), ⚽ Sports News, 🎥 Movies and Film News, 🔬 Science and Technology News, 📊 Stock News.
- Each bullet should be a **short headline or summary** (1–10 sentences max)
Also Give General information about all questions.

❌ Do not:
- Include images or image links
- Mention or promote apps or advertisements
- Add share buttons, links, or anything irrelevant`

// BuildPrompt constructs a generation request from its parts. The history
// excludes the just-asked question; no truncation is applied to bound the
// combined size, so very long conversations grow the prompt without limit.
func BuildPrompt(systemInstruction, contextString string, history models.Conversation, question string) models.GenerationRequest {
	return models.GenerationRequest{
		SystemPrompt: systemInstruction,
		Context:      contextString,
		History:      history,
		Question:     question,
	}
}

// RenderPrompt serializes a generation request into the single prompt string
// sent to the model. The conversation history is JSON-encoded.
func RenderPrompt(req models.GenerationRequest) string {
	history := req.History
	if history == nil {
		history = models.Conversation{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		// A Conversation of plain strings cannot fail to marshal; keep the
		// prompt well-formed regardless.
		historyJSON = []byte("[]")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\nCurrent conversation history: %s\nQuestion: %s",
		req.SystemPrompt,
		promptDelimiter,
		req.Context,
		promptDelimiter,
		historyJSON,
		req.Question,
	)
}
