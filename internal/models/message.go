package models

import "strings"

const PartText = "text"

// MessagePart is one part of a transport message. Only text parts carry
// transcript content.
type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ChatMessage is a role-tagged message as exchanged with the chat client.
type ChatMessage struct {
	ID    string        `json:"id,omitempty"`
	Role  Role          `json:"role"`
	Parts []MessagePart `json:"parts"`
}

// Text concatenates all text parts.
func (m ChatMessage) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// TextMessage builds a single-part text message.
func TextMessage(id string, role Role, text string) ChatMessage {
	return ChatMessage{ID: id, Role: role, Parts: []MessagePart{{Type: PartText, Text: text}}}
}
