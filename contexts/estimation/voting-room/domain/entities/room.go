package entities

type RoomState string

const (
	RoomStateVoting   RoomState = "voting"
	RoomStateRevealed RoomState = "revealed"
)

func (s RoomState) Valid() bool {
	return s == RoomStateVoting || s == RoomStateRevealed
}

type Role string

const (
	RoleOwner       Role = "owner"
	RoleParticipant Role = "participant"
)

type Participant struct {
	Role       Role `json:"role"`
	IsObserver bool `json:"isObserver"`
}

// RoomOptions are fixed when the room is created.
type RoomOptions struct {
	AllowVotesAfterReveal bool        `json:"allowVotesAfterReveal"`
	CardPackage           CardPackage `json:"cardPackage"`
}

// Room is the voting-session aggregate. Treat it as a value: transitions in
// domain/services return modified copies and never touch the receiver's maps.
type Room struct {
	Options      RoomOptions            `json:"options"`
	Participants map[string]Participant `json:"participants"`
	State        RoomState              `json:"state"`
	Votes        map[string]Card        `json:"votes"`
	// Version counts successful writes and backs compare-and-swap saves.
	Version int64 `json:"version"`
}

// Clone returns a deep copy of the room.
func (r Room) Clone() Room {
	out := r
	out.Participants = make(map[string]Participant, len(r.Participants))
	for id, participant := range r.Participants {
		out.Participants[id] = participant
	}
	out.Votes = make(map[string]Card, len(r.Votes))
	for id, vote := range r.Votes {
		out.Votes[id] = vote
	}
	return out
}

func (r Room) HasParticipant(userID string) bool {
	_, ok := r.Participants[userID]
	return ok
}

func (r Room) IsOwner(userID string) bool {
	participant, ok := r.Participants[userID]
	return ok && participant.Role == RoleOwner
}

// OwnerID returns the id of the single owner, or "" for a malformed room.
func (r Room) OwnerID() string {
	for id, participant := range r.Participants {
		if participant.Role == RoleOwner {
			return id
		}
	}
	return ""
}

// EligibleVoterCount is the number of non-observer participants.
func (r Room) EligibleVoterCount() int {
	count := 0
	for _, participant := range r.Participants {
		if !participant.IsObserver {
			count++
		}
	}
	return count
}

// AcceptsVotes reports whether the room state allows casting a vote.
func (r Room) AcceptsVotes() bool {
	switch r.State {
	case RoomStateVoting:
		return true
	case RoomStateRevealed:
		return r.Options.AllowVotesAfterReveal
	default:
		return false
	}
}
