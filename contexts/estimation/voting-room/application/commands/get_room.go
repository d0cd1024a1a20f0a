package commands

import (
	"context"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/application/queries"
	"ivote/contexts/estimation/voting-room/domain/entities"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type GetRoomCommand struct {
	RoomID string
	UserID string
}

// GetRoom returns the requester's view of the room, joining it first when the
// requester is not yet a participant.
func (uc RoomUseCase) GetRoom(ctx context.Context, cmd GetRoomCommand) (queries.RoomView, error) {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return queries.RoomView{}, err
	}

	room, joined, err := uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		if room.HasParticipant(userID) {
			return room, false, nil
		}
		return services.AddParticipant(room, userID), true, nil
	})
	if err != nil {
		uc.logRejected(logger, "get", roomID, userID, err)
		return queries.RoomView{}, err
	}

	if joined {
		logger.Info("participant joined room",
			"event", "voting_room_joined",
			"module", "estimation/voting-room",
			"layer", "application",
			"room_id", roomID,
			"user_id", userID,
		)
		uc.publish(ctx, roomID, ports.EventJoin, userID, nil)
	}
	return queries.NewRoomView(roomID, room, userID), nil
}
