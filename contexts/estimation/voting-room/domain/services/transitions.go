package services

import "ivote/contexts/estimation/voting-room/domain/entities"

// Transitions never fail: a missing participant or vote is a no-op here.
// Policy checks that need the caller's identity live in application/commands.

// CreateRoom returns a fresh voting room owned by ownerID.
func CreateRoom(options entities.RoomOptions, ownerID string) entities.Room {
	return entities.Room{
		Options: options,
		Participants: map[string]entities.Participant{
			ownerID: {Role: entities.RoleOwner, IsObserver: false},
		},
		State: entities.RoomStateVoting,
		Votes: map[string]entities.Card{},
	}
}

// AddParticipant inserts userID as a voting participant. Idempotent.
func AddParticipant(room entities.Room, userID string) entities.Room {
	if room.HasParticipant(userID) {
		return room
	}
	out := room.Clone()
	out.Participants[userID] = entities.Participant{Role: entities.RoleParticipant}
	return out
}

// RemoveParticipant drops userID and any vote they cast.
func RemoveParticipant(room entities.Room, userID string) entities.Room {
	if !room.HasParticipant(userID) {
		return room
	}
	out := room.Clone()
	delete(out.Participants, userID)
	delete(out.Votes, userID)
	return out
}

// CastVote sets or overwrites the vote for userID.
func CastVote(room entities.Room, userID string, card entities.Card) entities.Room {
	out := room.Clone()
	out.Votes[userID] = card
	return out
}

// ToggleObserverStatus flips the observer flag. Becoming an observer strips
// the participant's vote; switching back does not restore it.
func ToggleObserverStatus(room entities.Room, userID string) entities.Room {
	participant, ok := room.Participants[userID]
	if !ok {
		return room
	}
	out := room.Clone()
	participant.IsObserver = !participant.IsObserver
	out.Participants[userID] = participant
	if participant.IsObserver {
		delete(out.Votes, userID)
	}
	return out
}

// SetRoomState moves the room to state. Entering voting clears every vote.
func SetRoomState(room entities.Room, state entities.RoomState) entities.Room {
	out := room.Clone()
	out.State = state
	if state == entities.RoomStateVoting {
		out.Votes = map[string]entities.Card{}
	}
	return out
}

// ShouldAutoReveal is true when every eligible voter has voted in a voting room.
func ShouldAutoReveal(room entities.Room) bool {
	if room.State != entities.RoomStateVoting {
		return false
	}
	eligible := room.EligibleVoterCount()
	return eligible > 0 && eligible == len(room.Votes)
}
