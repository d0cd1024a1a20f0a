package commands

import (
	"context"
	"fmt"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type LeaveRoomCommand struct {
	RoomID string
	UserID string
}

// LeaveRoom removes the caller from the room. The owner leaving closes the
// room for everyone instead.
func (uc RoomUseCase) LeaveRoom(ctx context.Context, cmd LeaveRoomCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return err
	}

	room, err := uc.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		uc.logRejected(logger, "leave", roomID, userID, err)
		return err
	}
	if !room.HasParticipant(userID) {
		uc.logRejected(logger, "leave", roomID, userID, domainerrors.ErrUserNotInRoom)
		return domainerrors.ErrUserNotInRoom
	}

	if room.IsOwner(userID) {
		return uc.closeRoom(ctx, roomID, userID)
	}

	revealed := false
	_, _, err = uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		if !room.HasParticipant(userID) {
			return room, false, domainerrors.ErrUserNotInRoom
		}
		next := services.RemoveParticipant(room, userID)
		next, revealed = withAutoReveal(next)
		return next, true, nil
	})
	if err != nil {
		uc.logRejected(logger, "leave", roomID, userID, err)
		return err
	}

	logger.Info("participant left room",
		"event", "voting_room_left",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"auto_revealed", revealed,
	)
	uc.publish(ctx, roomID, ports.EventLeave, userID, nil)
	if revealed {
		uc.publish(ctx, roomID, ports.EventReveal, userID, nil)
	}
	return nil
}

func (uc RoomUseCase) closeRoom(ctx context.Context, roomID string, ownerID string) error {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.Rooms.DeleteRoom(ctx, roomID); err != nil {
		uc.logRejected(logger, "close", roomID, ownerID, err)
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}

	logger.Info("room closed by owner",
		"event", "voting_room_closed",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", ownerID,
	)
	uc.publish(ctx, roomID, ports.EventClosed, ownerID, nil)
	if uc.Events != nil {
		uc.Events.CloseRoom(roomID)
	}
	return nil
}
