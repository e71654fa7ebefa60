package coordinator

import (
	"sync"
	"time"

	"github.com/hirewise/crew/pkg/models"
)

// Trail is the append-only collaboration message list for one request.
// Appends are safe for concurrent use; messages are never mutated after
// creation. Sequence numbers define the presentation order.
type Trail struct {
	mu       sync.Mutex
	seq      int
	messages []models.CollaborationMessage
	observer func(models.CollaborationMessage)
}

// NewTrail creates an empty trail. The optional observer is called
// synchronously for every appended message; callers that want live
// progress hook it to a channel, callers that don't pass nil.
func NewTrail(observer func(models.CollaborationMessage)) *Trail {
	return &Trail{observer: observer}
}

// Append adds a message to the trail, assigning its sequence number and
// timestamp, and returns the stored message.
func (t *Trail) Append(kind models.MessageKind, from, to, content string, tokens int64) models.CollaborationMessage {
	t.mu.Lock()
	t.seq++
	msg := models.CollaborationMessage{
		Seq:        t.seq,
		From:       from,
		To:         to,
		Kind:       kind,
		Content:    content,
		CreatedAt:  time.Now(),
		TokensUsed: tokens,
	}
	t.messages = append(t.messages, msg)
	observer := t.observer
	t.mu.Unlock()

	if observer != nil {
		observer(msg)
	}
	return msg
}

// Status appends an informational progress note from the supervisor.
func (t *Trail) Status(content string) {
	t.Append(models.KindStatus, models.SupervisorID, "", content, 0)
}

// Messages returns a copy of the trail in append order.
func (t *Trail) Messages() []models.CollaborationMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.CollaborationMessage{}, t.messages...)
}

// Contributions returns only the contribution messages, in trail order.
func (t *Trail) Contributions() []models.CollaborationMessage {
	return models.FilterKind(t.Messages(), models.KindContribution)
}

// TotalTokens returns the summed token usage across the trail.
func (t *Trail) TotalTokens() int64 {
	return models.SumTokens(t.Messages())
}
