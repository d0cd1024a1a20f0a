package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
)

type CreateRoomCommand struct {
	OwnerID string
	Options entities.RoomOptions
}

// CreateRoom allocates a fresh room id and stores a new voting room owned by
// the caller. Colliding ids are regenerated.
func (uc RoomUseCase) CreateRoom(ctx context.Context, cmd CreateRoomCommand) (string, error) {
	logger := application.ResolveLogger(uc.Logger)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	if ownerID == "" {
		return "", domainerrors.ErrInvalidRequest
	}
	if !cmd.Options.CardPackage.Valid() {
		logger.Warn("room create validation failed",
			"event", "voting_room_create_validation_failed",
			"module", "estimation/voting-room",
			"layer", "application",
			"user_id", ownerID,
			"card_package", string(cmd.Options.CardPackage),
		)
		return "", domainerrors.ErrUnknownCardPackage
	}

	room := services.CreateRoom(cmd.Options, ownerID)
	for attempt := 1; attempt <= uc.resolveCreateAttempts(); attempt++ {
		roomID, err := uc.RoomIDs.NewRoomID(ctx)
		if err != nil {
			return "", fmt.Errorf("generate room id: %w", err)
		}
		err = uc.Rooms.CreateRoom(ctx, roomID, room)
		if errors.Is(err, domainerrors.ErrRoomIDTaken) {
			logger.Debug("room id collision; regenerating",
				"event", "voting_room_create_id_collision",
				"module", "estimation/voting-room",
				"layer", "application",
				"room_id", roomID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			uc.logRejected(logger, "create", roomID, ownerID, err)
			return "", fmt.Errorf("create room %s: %w", roomID, err)
		}

		logger.Info("room created",
			"event", "voting_room_created",
			"module", "estimation/voting-room",
			"layer", "application",
			"room_id", roomID,
			"user_id", ownerID,
			"card_package", string(cmd.Options.CardPackage),
			"allow_votes_after_reveal", cmd.Options.AllowVotesAfterReveal,
		)
		return roomID, nil
	}
	return "", domainerrors.ErrRoomIDExhausted
}
