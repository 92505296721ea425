package workflow

import (
	"time"
)

// EventType tags a stream chunk for the consumer.
type EventType string

const (
	EventStatus  EventType = "status"
	EventContent EventType = "content"
	EventError   EventType = "error"
)

// StreamEvent is one chunk on the progress stream. Final marks the terminal
// chunk; exactly one is emitted per request, even on failure.
type StreamEvent struct {
	Type      EventType `json:"type"`
	Node      string    `json:"node,omitempty"`
	Payload   string    `json:"payload"`
	Final     bool      `json:"final"`
	Timestamp time.Time `json:"timestamp"`
}

// Emitter pushes events to a consumer that may have gone away. Sends are
// non-blocking: a slow or disconnected consumer drops progress chunks rather
// than stalling the pipeline. A nil Emitter discards everything.
type Emitter struct {
	ch   chan StreamEvent
	done <-chan struct{}
}

// NewEmitter allocates the stream with a small buffer. done is the consumer's
// liveness signal (usually the request context's Done channel).
func NewEmitter(buffer int, done <-chan struct{}) *Emitter {
	if buffer <= 0 {
		buffer = 16
	}
	return &Emitter{
		ch:   make(chan StreamEvent, buffer),
		done: done,
	}
}

// Events is the consumer side of the stream. Closed after the terminal chunk.
func (e *Emitter) Events() <-chan StreamEvent {
	return e.ch
}

// Status reports pipeline progress. Best-effort.
func (e *Emitter) Status(node, payload string) {
	e.send(StreamEvent{Type: EventStatus, Node: node, Payload: payload, Timestamp: time.Now()})
}

// Error surfaces a node failure that the pipeline recovered from.
func (e *Emitter) Error(node, payload string) {
	e.send(StreamEvent{Type: EventError, Node: node, Payload: payload, Timestamp: time.Now()})
}

// Finish emits the terminal content chunk and closes the stream. Unlike
// progress chunks the terminal one blocks until delivered or the consumer is
// gone; a reader must never see the channel close without it.
func (e *Emitter) Finish(payload string) {
	if e == nil {
		return
	}
	ev := StreamEvent{Type: EventContent, Payload: payload, Final: true, Timestamp: time.Now()}
	if e.done != nil {
		select {
		case e.ch <- ev:
		case <-e.done:
		}
	} else {
		e.ch <- ev
	}
	close(e.ch)
}

func (e *Emitter) send(ev StreamEvent) {
	if e == nil {
		return
	}
	if e.done != nil {
		select {
		case <-e.done:
			return
		default:
		}
	}
	select {
	case e.ch <- ev:
	default:
	}
}
