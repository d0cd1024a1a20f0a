package http

import "ivote/contexts/estimation/voting-room/domain/entities"

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type CreateRoomRequest struct {
	AllowVotesAfterReveal bool   `json:"allowVotesAfterReveal"`
	CardPackage           string `json:"cardPackage"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type RoomOptions struct {
	AllowVotesAfterReveal bool   `json:"allowVotesAfterReveal"`
	CardPackage           string `json:"cardPackage"`
}

type Participant struct {
	Role       string `json:"role"`
	IsObserver bool   `json:"isObserver"`
}

type VoteSummary struct {
	VoteCount int      `json:"voteCount"`
	Average   *float64 `json:"average"`
}

// RoomResponse holds the room as seen by the requester. Hidden votes are
// null.
type RoomResponse struct {
	RoomID       string                    `json:"roomId"`
	Options      RoomOptions               `json:"options"`
	Participants map[string]Participant    `json:"participants"`
	State        string                    `json:"state"`
	Votes        map[string]*entities.Card `json:"votes"`
	Summary      *VoteSummary              `json:"summary"`
}

type CastVoteRequest struct {
	Vote *entities.Card `json:"vote"`
}

type KickParticipantRequest struct {
	ParticipantID string `json:"participantId"`
}

type CardPackage struct {
	Package     string          `json:"package"`
	Cards       []entities.Card `json:"cards"`
	Aggregation string          `json:"aggregation"`
}

type CardPackagesResponse struct {
	Items []CardPackage `json:"items"`
}
