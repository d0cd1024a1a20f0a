package queries

import (
	"context"
	"errors"
	"testing"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
)

func votingRoom() entities.Room {
	room := services.CreateRoom(entities.RoomOptions{CardPackage: entities.CardPackageMountainGoat}, "u1")
	room = services.AddParticipant(room, "u2")
	room = services.AddParticipant(room, "u3")
	room = services.CastVote(room, "u1", "5")
	room = services.CastVote(room, "u2", "?")
	return room
}

func TestNewRoomViewHidesOtherVotesWhileVoting(t *testing.T) {
	view := NewRoomView("12345", votingRoom(), "u2")

	if view.Votes["u1"] != nil {
		t.Fatalf("u1 vote leaked to u2: %v", *view.Votes["u1"])
	}
	if view.Votes["u2"] == nil || *view.Votes["u2"] != "?" {
		t.Fatalf("expected own vote visible, got %v", view.Votes["u2"])
	}
	if _, ok := view.Votes["u3"]; ok {
		t.Fatalf("u3 has not voted and must be absent")
	}
	if view.Summary != nil {
		t.Fatalf("summary must be hidden while voting")
	}
}

func TestNewRoomViewNonParticipantSeesNoValues(t *testing.T) {
	view := NewRoomView("12345", votingRoom(), "stranger")
	for id, vote := range view.Votes {
		if vote != nil {
			t.Fatalf("vote of %s leaked: %v", id, *vote)
		}
	}
}

func TestNewRoomViewRevealedShowsEverythingWithAverage(t *testing.T) {
	room := services.SetRoomState(votingRoom(), entities.RoomStateRevealed)
	view := NewRoomView("12345", room, "u3")

	if view.Votes["u1"] == nil || *view.Votes["u1"] != "5" {
		t.Fatalf("expected revealed vote for u1")
	}
	if view.Summary == nil || view.Summary.VoteCount != 2 {
		t.Fatalf("unexpected summary %+v", view.Summary)
	}
	if view.Summary.Average == nil || *view.Summary.Average != 5 {
		t.Fatalf("expected average 5, got %v", view.Summary.Average)
	}
}

func TestNewRoomViewDoesNotAliasRoom(t *testing.T) {
	room := votingRoom()
	view := NewRoomView("12345", room, "u1")
	*view.Votes["u1"] = "100"
	view.Participants["u9"] = entities.Participant{}
	if room.Votes["u1"] != "5" || room.HasParticipant("u9") {
		t.Fatalf("view mutation leaked into room")
	}
}

type staticStore struct {
	rooms map[string]entities.Room
}

func (s staticStore) GetRoom(_ context.Context, roomID string) (entities.Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return entities.Room{}, domainerrors.ErrRoomNotFound
	}
	return room, nil
}
func (staticStore) CreateRoom(context.Context, string, entities.Room) error { return nil }
func (staticStore) SaveRoom(context.Context, string, entities.Room) error   { return nil }
func (staticStore) DeleteRoom(context.Context, string) error                { return nil }

func TestGetRoomUseCase(t *testing.T) {
	uc := GetRoomUseCase{Rooms: staticStore{rooms: map[string]entities.Room{"12345": votingRoom()}}}

	view, err := uc.Execute(context.Background(), "12345", "u1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if view.RoomID != "12345" || len(view.Participants) != 3 {
		t.Fatalf("unexpected view %+v", view)
	}

	if _, err := uc.Execute(context.Background(), "99999", "u1"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), " ", "u1"); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
