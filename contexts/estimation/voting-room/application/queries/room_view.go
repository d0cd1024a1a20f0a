package queries

import (
	"sort"

	"ivote/contexts/estimation/voting-room/domain/entities"
	"ivote/contexts/estimation/voting-room/domain/services"
)

// RoomView is the requester-specific read model of a room. While voting,
// Votes holds nil for every participant except the viewer.
type RoomView struct {
	RoomID       string
	Options      entities.RoomOptions
	Participants map[string]entities.Participant
	State        entities.RoomState
	Votes        map[string]*entities.Card
	Summary      *VoteSummary
}

// VoteSummary is only computed for revealed rooms.
type VoteSummary struct {
	VoteCount int
	// Average is nil when the deck has no aggregation policy or no numeric
	// vote was cast.
	Average *float64
}

// NewRoomView applies the vote-visibility rule for viewerID.
func NewRoomView(roomID string, room entities.Room, viewerID string) RoomView {
	participants := make(map[string]entities.Participant, len(room.Participants))
	for id, participant := range room.Participants {
		participants[id] = participant
	}

	view := RoomView{
		RoomID:       roomID,
		Options:      room.Options,
		Participants: participants,
		State:        room.State,
		Votes:        make(map[string]*entities.Card, len(room.Votes)),
	}

	for id, vote := range room.Votes {
		if room.State != entities.RoomStateRevealed && id != viewerID {
			view.Votes[id] = nil
			continue
		}
		card := vote
		view.Votes[id] = &card
	}

	if room.State == entities.RoomStateRevealed {
		view.Summary = summarize(room)
	}
	return view
}

func summarize(room entities.Room) *VoteSummary {
	ids := make([]string, 0, len(room.Votes))
	for id := range room.Votes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cards := make([]entities.Card, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, room.Votes[id])
	}

	summary := &VoteSummary{VoteCount: len(cards)}
	if average, ok := services.CalculateAverage(cards, room.Options.CardPackage); ok {
		summary.Average = &average
	}
	return summary
}
