package ports

import (
	"context"
	"time"

	"ivote/contexts/estimation/voting-room/domain/entities"
)

// RoomStore persists full room snapshots keyed by room id. Writes refresh the
// store-level expiry.
type RoomStore interface {
	// GetRoom returns domainerrors.ErrRoomNotFound for absent or expired rooms.
	GetRoom(ctx context.Context, roomID string) (entities.Room, error)
	// CreateRoom fails with domainerrors.ErrRoomIDTaken when a live room
	// already uses roomID.
	CreateRoom(ctx context.Context, roomID string, room entities.Room) error
	// SaveRoom stores room only if the persisted version still equals
	// room.Version, and bumps it. A stale version yields
	// domainerrors.ErrRoomVersionConflict.
	SaveRoom(ctx context.Context, roomID string, room entities.Room) error
	DeleteRoom(ctx context.Context, roomID string) error
}

// ExpiredRoomSweeper is implemented by stores without native key expiry.
type ExpiredRoomSweeper interface {
	DeleteExpiredRooms(ctx context.Context, now time.Time) (int, error)
}

type EventType string

const (
	EventJoin              EventType = "join"
	EventLeave             EventType = "leave"
	EventKick              EventType = "kick"
	EventVote              EventType = "vote"
	EventReveal            EventType = "reveal"
	EventReset             EventType = "reset"
	EventUpdateParticipant EventType = "update_participant"
	EventClosed            EventType = "closed"
)

// EventPayload carries the optional event details.
type EventPayload struct {
	KickedUserID string `json:"kickedUserId,omitempty"`
}

// EventPublisher fans change notifications out to live room subscribers.
// Publish must not block on subscriber speed and never reports delivery
// failures.
type EventPublisher interface {
	Publish(ctx context.Context, roomID string, eventType EventType, sourceUserID string, payload *EventPayload)
	// Evict closes every subscription held by participantID in roomID.
	Evict(roomID string, participantID string)
	// CloseRoom closes every subscription of roomID.
	CloseRoom(roomID string)
}

// Clock allows deterministic testing of expiry rules.
type Clock interface {
	Now() time.Time
}

// RoomIDGenerator proposes candidate room ids; uniqueness is enforced by the
// store on create.
type RoomIDGenerator interface {
	NewRoomID(ctx context.Context) (string, error)
}
