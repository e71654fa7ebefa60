package orchestrator

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/hirewise/crew/pkg/models"
)

// MessageEmitter fans trail messages out to a subscriber channel, for
// live progress display. Emission never blocks the run for long: a full
// channel gets one short grace period and then the message is dropped.
type MessageEmitter struct {
	messages     chan models.CollaborationMessage
	droppedCount atomic.Uint64
}

// NewMessageEmitter creates a MessageEmitter with the given buffer size.
func NewMessageEmitter(bufferSize int) *MessageEmitter {
	return &MessageEmitter{
		messages: make(chan models.CollaborationMessage, bufferSize),
	}
}

// Emit sends a message to the channel. If the channel is full, it tries
// with a timeout before dropping the message.
func (e *MessageEmitter) Emit(msg models.CollaborationMessage) {
	select {
	case e.messages <- msg:
		return
	default:
	}

	select {
	case e.messages <- msg:
		return
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // log every 10th drop to avoid spam
			log.Printf("[orchestrator] WARNING: message channel full, dropped message (total dropped: %d): kind=%s", count, msg.Kind)
		}
	}
}

// DroppedCount returns the total number of messages that have been dropped.
func (e *MessageEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Messages returns a read-only channel of messages for subscribers.
func (e *MessageEmitter) Messages() <-chan models.CollaborationMessage {
	return e.messages
}

// Close closes the message channel. Call only after the run finished.
func (e *MessageEmitter) Close() {
	close(e.messages)
}
