package domain

import "encoding/json"

const (
	DefaultMessageType = "message"
	DefaultUser        = "Anonymous"
)

// InboundMessage is a frame received from a websocket peer. Every field is
// optional; missing fields are defaulted when the outbound message is built.
type InboundMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
	User    string          `json:"user"`
}

// OutboundMessage is an InboundMessage enriched with a server-assigned
// timestamp and defaulted type/user. Immutable once constructed; sent
// identically to all registered connections.
type OutboundMessage struct {
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	Timestamp string          `json:"timestamp"`
	User      string          `json:"user"`
}

// Enrich builds the outbound message from an inbound frame, applying the
// type/user defaults. Content passes through unchanged and may be null.
func (m InboundMessage) Enrich(timestamp string) OutboundMessage {
	out := OutboundMessage{
		Type:      m.Type,
		Content:   m.Content,
		Timestamp: timestamp,
		User:      m.User,
	}
	if out.Type == "" {
		out.Type = DefaultMessageType
	}
	if out.User == "" {
		out.User = DefaultUser
	}
	if out.Content == nil {
		out.Content = json.RawMessage("null")
	}
	return out
}
