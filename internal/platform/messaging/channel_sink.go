package messaging

import (
	"sync"

	"ivote/internal/shared/events"
)

const DefaultSinkBuffer = 64

// ChannelSink buffers notifications for a single stream writer. Close leaves
// already buffered notifications readable.
type ChannelSink struct {
	mu     sync.Mutex
	ch     chan events.Notification
	closed bool
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = DefaultSinkBuffer
	}
	return &ChannelSink{ch: make(chan events.Notification, buffer)}
}

// Events is closed once the sink is closed and drained.
func (s *ChannelSink) Events() <-chan events.Notification {
	return s.ch
}

func (s *ChannelSink) Send(notification events.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- notification:
		return true
	default:
		return false
	}
}

func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
