package commands

import (
	"context"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/contexts/estimation/voting-room/ports"
)

type CastVoteCommand struct {
	RoomID string
	UserID string
	Vote   entities.Card
}

// CastVote records the caller's card. When the vote completes the round the
// room is revealed in the same write and only a reveal event is published.
func (uc RoomUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	roomID, userID, err := normalizeIDs(cmd.RoomID, cmd.UserID)
	if err != nil {
		return err
	}

	revealed := false
	_, _, err = uc.mutate(ctx, roomID, func(room entities.Room) (entities.Room, bool, error) {
		participant, ok := room.Participants[userID]
		if !ok {
			return room, false, domainerrors.ErrUserNotInRoom
		}
		if !room.AcceptsVotes() || participant.IsObserver {
			return room, false, domainerrors.ErrVotingNotAllowed
		}
		deck, ok := entities.LookupDeck(room.Options.CardPackage)
		if !ok || !deck.Contains(cmd.Vote) {
			return room, false, domainerrors.ErrInvalidCard
		}

		next := services.CastVote(room, userID, cmd.Vote)
		next, revealed = withAutoReveal(next)
		return next, true, nil
	})
	if err != nil {
		uc.logRejected(logger, "vote", roomID, userID, err)
		return err
	}

	logger.Info("vote cast",
		"event", "voting_room_vote_cast",
		"module", "estimation/voting-room",
		"layer", "application",
		"room_id", roomID,
		"user_id", userID,
		"auto_revealed", revealed,
	)
	if revealed {
		uc.publish(ctx, roomID, ports.EventReveal, userID, nil)
		return nil
	}
	uc.publish(ctx, roomID, ports.EventVote, userID, nil)
	return nil
}
