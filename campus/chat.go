package campus

import "strings"

// ChatMessage is a message to the assistant.
type ChatMessage struct {
	Message string `json:"message"`
}

// Validate rejects blank messages.
func (m ChatMessage) Validate() error {
	if strings.TrimSpace(m.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	Response string `json:"response"`
}

// ChatFallbackReply is shown in place of a reply when the request failed.
const ChatFallbackReply = "Sorry, I encountered an error. Please try again."
