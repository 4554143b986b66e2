package contract

import (
	"strings"
	"unicode/utf8"
)

const maxChatMessageLen = 500

// ChatRequest is submitted to POST /sessions/{id}/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Validate bounds the message to 1–500 characters.
func (r ChatRequest) Validate() error {
	var fe fieldErrors
	n := utf8.RuneCountInString(strings.TrimSpace(r.Message))
	if n < 1 || n > maxChatMessageLen {
		fe.add("message", "メッセージは1〜500文字で入力してください")
	}
	return fe.err()
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply              string   `json:"reply"`
	SuggestedQuestions []string `json:"suggestedQuestions,omitempty"`
}
