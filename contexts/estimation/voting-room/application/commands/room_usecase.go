package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

const (
	defaultCreateAttempts = 10
	defaultWriteAttempts  = 5
)

// RoomUseCase orchestrates every room command: load, authorize, transition,
// persist with a version check, auto-reveal, publish.
//
// Persisting is the synchronous phase and decides the command outcome.
// Publishing happens only after a successful write and never fails the command.
type RoomUseCase struct {
	Rooms          ports.RoomStore
	Events         ports.EventPublisher
	RoomIDs        ports.RoomIDGenerator
	CreateAttempts int
	WriteAttempts  int
	Logger         *slog.Logger
}

// mutation is applied to a freshly loaded room on every write attempt. It
// returns the next room, or changed=false when nothing needs to be written.
type mutation func(room entities.Room) (next entities.Room, changed bool, err error)

// mutate runs read-apply-save until the compare-and-swap succeeds. A version
// conflict re-reads the room and re-applies every policy check.
func (uc RoomUseCase) mutate(ctx context.Context, roomID string, apply mutation) (entities.Room, bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	attempts := uc.resolveWriteAttempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		room, err := uc.Rooms.GetRoom(ctx, roomID)
		if err != nil {
			return entities.Room{}, false, err
		}

		next, changed, err := apply(room)
		if err != nil {
			return entities.Room{}, false, err
		}
		if !changed {
			return room, false, nil
		}

		err = uc.Rooms.SaveRoom(ctx, roomID, next)
		if err == nil {
			next.Version = room.Version + 1
			return next, true, nil
		}
		if !errors.Is(err, domainerrors.ErrRoomVersionConflict) {
			return entities.Room{}, false, fmt.Errorf("save room %s: %w", roomID, err)
		}
		logger.Warn("room write conflicted; retrying",
			"event", "voting_room_write_conflict",
			"module", "estimation/voting-room",
			"layer", "application",
			"room_id", roomID,
			"attempt", attempt,
		)
	}
	return entities.Room{}, false, domainerrors.ErrRoomVersionConflict
}

// withAutoReveal reveals the room in the same write when every eligible voter
// has voted.
func withAutoReveal(room entities.Room) (entities.Room, bool) {
	if !services.ShouldAutoReveal(room) {
		return room, false
	}
	return services.SetRoomState(room, entities.RoomStateRevealed), true
}

func (uc RoomUseCase) publish(
	ctx context.Context,
	roomID string,
	eventType ports.EventType,
	sourceUserID string,
	payload *ports.EventPayload,
) {
	// A nil publisher is a no-op.
	if uc.Events == nil {
		return
	}
	// Delivery outlives the request that caused it.
	uc.Events.Publish(context.WithoutCancel(ctx), roomID, eventType, sourceUserID, payload)
}

func (uc RoomUseCase) resolveWriteAttempts() int {
	if uc.WriteAttempts <= 0 {
		return defaultWriteAttempts
	}
	return uc.WriteAttempts
}

func (uc RoomUseCase) resolveCreateAttempts() int {
	if uc.CreateAttempts <= 0 {
		return defaultCreateAttempts
	}
	return uc.CreateAttempts
}

func (uc RoomUseCase) logRejected(logger *slog.Logger, operation string, roomID string, userID string, err error) {
	if _, ok := domainerrors.AsBusinessError(err); ok ||
		errors.Is(err, domainerrors.ErrRoomNotFound) ||
		errors.Is(err, domainerrors.ErrInvalidRequest) ||
		errors.Is(err, domainerrors.ErrInvalidCard) {
		logger.Warn("room command rejected",
			"event", "voting_room_"+operation+"_rejected",
			"module", "estimation/voting-room",
			"layer", "application",
			"room_id", roomID,
			"user_id", userID,
			"reason", err.Error(),
		)
		return
	}
	logger.Error("room command failed",
		"event", "voting_room_"+operation+"_failed",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"error", err.Error(),
	)
}

func normalizeIDs(roomID string, userID string) (string, string, error) {
	roomID = strings.TrimSpace(roomID)
	userID = strings.TrimSpace(userID)
	if roomID == "" || userID == "" {
		return "", "", domainerrors.ErrInvalidRequest
	}
	return roomID, userID, nil
}
