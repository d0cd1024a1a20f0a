package queries

import (
	"context"
	"log/slog"
	"strings"

	application "ivote/contexts/estimation/voting-room/application"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
)

// GetRoomUseCase reads a room without joining it. Used by stream endpoints to
// check a room exists before subscribing.
type GetRoomUseCase struct {
	Rooms  ports.RoomStore
	Logger *slog.Logger
}

func (uc GetRoomUseCase) Execute(ctx context.Context, roomID string, viewerID string) (RoomView, error) {
	logger := application.ResolveLogger(uc.Logger)
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return RoomView{}, domainerrors.ErrInvalidRequest
	}

	room, err := uc.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		logger.Debug("room lookup failed",
			"event", "voting_room_lookup_failed",
			"module", "estimation/voting-room",
			"layer", "application",
			"room_id", roomID,
			"error", err.Error(),
		)
		return RoomView{}, err
	}
	return NewRoomView(roomID, room, strings.TrimSpace(viewerID)), nil
}
