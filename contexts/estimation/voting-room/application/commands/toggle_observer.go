package commands

import (
	"context"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type ToggleObserverCommand struct {
	RoomID string
	UserID string
}

// ToggleObserver switches the caller between voting and observing. A caller
// who is not in the room is ignored.
func (uc RoomUseCase) ToggleObserver(ctx context.Context, cmd ToggleObserverCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return err
	}

	revealed := false
	room, changed, err := uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		if !room.HasParticipant(userID) {
			return room, false, nil
		}
		next := services.ToggleObserverStatus(room, userID)
		next, revealed = withAutoReveal(next)
		return next, true, nil
	})
	if err != nil {
		uc.logRejected(logger, "toggle_observer", roomID, userID, err)
		return err
	}
	if !changed {
		return nil
	}

	logger.Info("participant observer status toggled",
		"event", "voting_room_observer_toggled",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"is_observer", room.Participants[userID].IsObserver,
		"auto_revealed", revealed,
	)
	uc.publish(ctx, roomID, ports.EventUpdateParticipant, userID, nil)
	if revealed {
		uc.publish(ctx, roomID, ports.EventReveal, userID, nil)
	}
	return nil
}
