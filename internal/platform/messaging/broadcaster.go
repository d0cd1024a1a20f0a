package messaging

import (
	"context"
	"log/slog"
	"sync"

	"ivote/contexts/estimation/voting-room/ports"
	"ivote/internal/shared/events"
)

// Sink receives notifications for one live connection.
type Sink interface {
	// Send must not block. A false return means the sink can no longer
	// receive and is evicted.
	Send(events.Notification) bool
	Close()
}

// Broadcaster fans room notifications out to in-process subscribers.
// Subscribers on other processes are not reached.
type Broadcaster struct {
	mu       sync.RWMutex
	rooms    map[string]map[Sink]string
	shutdown bool
	logger   *slog.Logger
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		rooms:  make(map[string]map[Sink]string),
		logger: logger,
	}
}

// Subscribe registers sink for roomID on behalf of participantID. The
// returned cancel func unsubscribes and closes the sink.
func (b *Broadcaster) Subscribe(roomID string, participantID string, sink Sink) func() {
	b.mu.Lock()
	if b.shutdown {
		b.mu.Unlock()
		sink.Close()
		return func() {}
	}
	room, ok := b.rooms[roomID]
	if !ok {
		room = make(map[Sink]string)
		b.rooms[roomID] = room
	}
	room[sink] = participantID
	b.mu.Unlock()

	b.logger.Debug("room subscriber added",
		"event", "room_subscriber_added",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"room_id", roomID,
		"user_id", participantID,
	)
	return func() { b.Unsubscribe(roomID, participantID, sink) }
}

func (b *Broadcaster) Unsubscribe(roomID string, participantID string, sink Sink) {
	b.mu.Lock()
	removed := b.removeLocked(roomID, sink)
	b.mu.Unlock()
	if !removed {
		return
	}
	sink.Close()
	b.logger.Debug("room subscriber removed",
		"event", "room_subscriber_removed",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"room_id", roomID,
		"user_id", participantID,
	)
}

// Publish delivers to every sink registered for roomID. Cancellation of ctx
// does not cut delivery short.
func (b *Broadcaster) Publish(
	_ context.Context,
	roomID string,
	eventType ports.EventType,
	sourceUserID string,
	payload *ports.EventPayload,
) {
	notification := events.Notification{
		EventType:    string(eventType),
		SourceUserID: sourceUserID,
	}
	if payload != nil {
		notification.Payload = payload
	}

	b.mu.RLock()
	room := b.rooms[roomID]
	sinks := make([]Sink, 0, len(room))
	for sink := range room {
		sinks = append(sinks, sink)
	}
	b.mu.RUnlock()

	var failed []Sink
	for _, sink := range sinks {
		if !sink.Send(notification) {
			failed = append(failed, sink)
		}
	}

	for _, sink := range failed {
		b.mu.Lock()
		participantID := b.rooms[roomID][sink]
		removed := b.removeLocked(roomID, sink)
		b.mu.Unlock()
		if !removed {
			continue
		}
		sink.Close()
		b.logger.Warn("evicting room subscriber that cannot keep up",
			"event", "room_publish_evict",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"room_id", roomID,
			"user_id", participantID,
			"event_type", string(eventType),
		)
	}

	b.logger.Debug("room event published",
		"event", "room_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"room_id", roomID,
		"event_type", string(eventType),
		"source_user_id", sourceUserID,
		"delivered", len(sinks)-len(failed),
	)
}

// Evict closes every sink participantID holds in roomID. Sinks drain what
// was already queued before they report closed.
func (b *Broadcaster) Evict(roomID string, participantID string) {
	b.mu.Lock()
	var evicted []Sink
	for sink, owner := range b.rooms[roomID] {
		if owner == participantID {
			evicted = append(evicted, sink)
		}
	}
	for _, sink := range evicted {
		b.removeLocked(roomID, sink)
	}
	b.mu.Unlock()

	for _, sink := range evicted {
		sink.Close()
	}
}

func (b *Broadcaster) CloseRoom(roomID string) {
	b.mu.Lock()
	room := b.rooms[roomID]
	delete(b.rooms, roomID)
	b.mu.Unlock()

	for sink := range room {
		sink.Close()
	}
}

// Shutdown closes every sink and rejects later subscriptions.
func (b *Broadcaster) Shutdown() {
	b.mu.Lock()
	rooms := b.rooms
	b.rooms = make(map[string]map[Sink]string)
	b.shutdown = true
	b.mu.Unlock()

	closed := 0
	for _, room := range rooms {
		for sink := range room {
			sink.Close()
			closed++
		}
	}
	b.logger.Info("broadcaster shut down",
		"event", "room_broadcaster_shutdown",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"closed_subscribers", closed,
	)
}

// SubscriberCount reports the live sinks of roomID.
func (b *Broadcaster) SubscriberCount(roomID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomID])
}

// removeLocked must be called with mu held. The room entry is dropped with
// its last sink.
func (b *Broadcaster) removeLocked(roomID string, sink Sink) bool {
	room, ok := b.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := room[sink]; !ok {
		return false
	}
	delete(room, sink)
	if len(room) == 0 {
		delete(b.rooms, roomID)
	}
	return true
}

var _ ports.EventPublisher = (*Broadcaster)(nil)
