package models

import "time"

// SupervisorID is the sender id used for synthesis messages, which are
// produced by the merge pass rather than by any team persona.
const SupervisorID = "supervisor"

// MessageKind classifies a collaboration message.
type MessageKind string

const (
	// KindContribution is a persona's independent first-pass response.
	KindContribution MessageKind = "contribution"
	// KindDiscussion is a persona's reaction to another persona's contribution.
	KindDiscussion MessageKind = "discussion"
	// KindSynthesis is the final merged answer from the supervisor pass.
	KindSynthesis MessageKind = "synthesis"
	// KindStatus is an informational progress note; callers may ignore it.
	KindStatus MessageKind = "status"
)

// Valid returns true if the kind is a known value.
func (k MessageKind) Valid() bool {
	switch k {
	case KindContribution, KindDiscussion, KindSynthesis, KindStatus:
		return true
	default:
		return false
	}
}

// CollaborationMessage is one entry in a request's append-only message
// trail. Messages are never mutated after creation.
type CollaborationMessage struct {
	// Seq is a monotonic sequence number assigned when the message is
	// appended; it defines the trail order.
	Seq int `json:"seq"`
	// From is the persona id that produced this message, or SupervisorID.
	From string `json:"from"`
	// To is set only for targeted discussion messages.
	To string `json:"to,omitempty"`
	// Kind classifies the message.
	Kind MessageKind `json:"kind"`
	// Content is the text produced by an LLM call or a progress note.
	Content string `json:"content"`
	// CreatedAt is when the message was appended.
	CreatedAt time.Time `json:"created_at"`
	// TokensUsed is the token usage of the call that produced this
	// message; zero for status notes.
	TokensUsed int64 `json:"tokens_used,omitempty"`
}

// SumTokens returns the total token usage across the given messages.
func SumTokens(messages []CollaborationMessage) int64 {
	var total int64
	for _, m := range messages {
		total += m.TokensUsed
	}
	return total
}

// FilterKind returns the messages of the given kind, preserving order.
func FilterKind(messages []CollaborationMessage, kind MessageKind) []CollaborationMessage {
	var out []CollaborationMessage
	for _, m := range messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
