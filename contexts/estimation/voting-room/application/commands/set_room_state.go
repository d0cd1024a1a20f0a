package commands

import (
	"context"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type RoomStateCommand struct {
	RoomID string
	UserID string
}

// RevealRoom shows every vote. Owner only.
func (uc RoomUseCase) RevealRoom(ctx context.Context, cmd RoomStateCommand) error {
	return uc.setState(ctx, cmd, entities.RoomStateRevealed, ports.EventReveal, "reveal")
}

// ResetRoom starts a new round with an empty vote set. Owner only.
func (uc RoomUseCase) ResetRoom(ctx context.Context, cmd RoomStateCommand) error {
	return uc.setState(ctx, cmd, entities.RoomStateVoting, ports.EventReset, "reset")
}

func (uc RoomUseCase) setState(
	ctx context.Context,
	cmd RoomStateCommand,
	state entities.RoomState,
	eventType ports.EventType,
	operation string,
) error {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return err
	}

	_, _, err = uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		if !room.IsOwner(userID) {
			return room, false, domainerrors.ErrNotOwner
		}
		return services.SetRoomState(room, state), true, nil
	})
	if err != nil {
		uc.logRejected(logger, operation, roomID, userID, err)
		return err
	}

	logger.Info("room state changed",
		"event", "voting_room_"+operation,
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"state", string(state),
	)
	uc.publish(ctx, roomID, eventType, userID, nil)
	return nil
}
