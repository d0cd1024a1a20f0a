package commands

import (
	"context"
	"strings"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type KickParticipantCommand struct {
	RoomID        string
	UserID        string
	ParticipantID string
}

// KickParticipant lets the owner remove another participant. The kicked
// participant's live subscriptions are closed after the kick event is queued.
func (uc RoomUseCase) KickParticipant(ctx context.Context, cmd KickParticipantCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return err
	}
	targetID := strings.TrimSpace(cmd.ParticipantID)
	if targetID == "" {
		return domainerrors.ErrInvalidRequest
	}

	revealed := false
	_, _, err = uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		if !room.IsOwner(userID) {
			return room, false, domainerrors.ErrNotOwner
		}
		if targetID == userID {
			return room, false, domainerrors.ErrKickSelf
		}
		if !room.HasParticipant(targetID) {
			return room, false, domainerrors.ErrUserNotInRoom
		}
		next := services.RemoveParticipant(room, targetID)
		next, revealed = withAutoReveal(next)
		return next, true, nil
	})
	if err != nil {
		uc.logRejected(logger, "kick", roomID, userID, err)
		return err
	}

	logger.Info("participant kicked",
		"event", "voting_room_participant_kicked",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"kicked_user_id", targetID,
		"auto_revealed", revealed,
	)
	uc.publish(ctx, roomID, ports.EventKick, userID, &ports.EventPayload{KickedUserID: targetID})
	if uc.Events != nil {
		uc.Events.Evict(roomID, targetID)
	}
	if revealed {
		uc.publish(ctx, roomID, ports.EventReveal, userID, nil)
	}
	return nil
}
