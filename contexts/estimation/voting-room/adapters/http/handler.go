package httpadapter

import (
	"context"
	"log/slog"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/application/commands"
	"ivote/contexts/estimation/voting-room/application/queries"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	httptransport "ivote/contexts/estimation/voting-room/transport/http"
)

type Handler struct {
	Rooms     commands.RoomUseCase
	PeekRooms queries.GetRoomUseCase
	Logger    *slog.Logger
}

// CreateRoomHandler godoc
// @Summary Create a voting room
// @Description Creates a room owned by the caller and returns its five digit id.
// @Tags voting-room
// @Accept json
// @Produce json
// @Param X-User-Id header string false "Participant id, honoured only when TRUST_USER_HEADER is set"
// @Param request body httptransport.CreateRoomRequest true "Room options"
// @Success 201 {object} httptransport.CreateRoomResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/rooms [post]
func (h Handler) CreateRoomHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateRoomRequest,
) (httptransport.CreateRoomResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create room request received",
		"event", "http_create_room_received",
		"module", "estimation/voting-room",
		"layer", "transport",
		"user_id", userID,
	)

	roomID, err := h.Rooms.CreateRoom(ctx, commands.CreateRoomCommand{
		OwnerID: userID,
		Options: entities.RoomOptions{
			AllowVotesAfterReveal: req.AllowVotesAfterReveal,
			CardPackage:           entities.CardPackage(req.CardPackage),
		},
	})
	if err != nil {
		return httptransport.CreateRoomResponse{}, err
	}
	return httptransport.CreateRoomResponse{RoomID: roomID}, nil
}

// GetRoomHandler godoc
// @Summary Get a room
// @Description Joins the caller to the room if needed and returns the room with other participants' votes hidden until reveal.
// @Tags voting-room
// @Produce json
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Participant id, honoured only when TRUST_USER_HEADER is set"
// @Success 200 {object} httptransport.RoomResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id} [get]
func (h Handler) GetRoomHandler(ctx context.Context, roomID string, userID string) (httptransport.RoomResponse, error) {
	view, err := h.Rooms.GetRoom(ctx, commands.GetRoomCommand{RoomID: roomID, UserID: userID})
	if err != nil {
		return httptransport.RoomResponse{}, err
	}
	return mapRoomView(view), nil
}

// CastVoteHandler godoc
// @Summary Cast a vote
// @Tags voting-room
// @Accept json
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Participant id, honoured only when TRUST_USER_HEADER is set"
// @Param request body httptransport.CastVoteRequest true "Card from the room's package"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id}/votes [post]
func (h Handler) CastVoteHandler(ctx context.Context, roomID string, userID string, req httptransport.CastVoteRequest) error {
	if req.Vote == nil {
		return domainerrors.ErrInvalidCard
	}
	return h.Rooms.CastVote(ctx, commands.CastVoteCommand{RoomID: roomID, UserID: userID, Vote: *req.Vote})
}

// LeaveRoomHandler godoc
// @Summary Leave a room
// @Description The owner leaving closes the room for everyone.
// @Tags voting-room
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Participant id, honoured only when TRUST_USER_HEADER is set"
// @Success 204
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id}/leave [post]
func (h Handler) LeaveRoomHandler(ctx context.Context, roomID string, userID string) error {
	return h.Rooms.LeaveRoom(ctx, commands.LeaveRoomCommand{RoomID: roomID, UserID: userID})
}

// KickParticipantHandler godoc
// @Summary Kick a participant
// @Tags voting-room
// @Accept json
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Owner id (falls back to the session cookie)"
// @Param request body httptransport.KickParticipantRequest true "Participant to remove"
// @Success 204
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id}/kick [post]
func (h Handler) KickParticipantHandler(
	ctx context.Context,
	roomID string,
	userID string,
	req httptransport.KickParticipantRequest,
) error {
	return h.Rooms.KickParticipant(ctx, commands.KickParticipantCommand{
		RoomID:        roomID,
		UserID:        userID,
		ParticipantID: req.ParticipantID,
	})
}

// RevealRoomHandler godoc
// @Summary Reveal votes
// @Tags voting-room
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Owner id (falls back to the session cookie)"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id}/reveal [post]
func (h Handler) RevealRoomHandler(ctx context.Context, roomID string, userID string) error {
	return h.Rooms.RevealRoom(ctx, commands.RoomStateCommand{RoomID: roomID, UserID: userID})
}

// ResetRoomHandler godoc
// @Summary Start a new round
// @Tags voting-room
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Owner id (falls back to the session cookie)"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/rooms/{room_id}/reset [post]
func (h Handler) ResetRoomHandler(ctx context.Context, roomID string, userID string) error {
	return h.Rooms.ResetRoom(ctx, commands.RoomStateCommand{RoomID: roomID, UserID: userID})
}

// ToggleObserverHandler godoc
// @Summary Toggle observer status
// @Tags voting-room
// @Param room_id path string true "Room id"
// @Param X-User-Id header string false "Participant id, honoured only when TRUST_USER_HEADER is set"
// @Success 204
// @Router /v1/rooms/{room_id}/observer [post]
func (h Handler) ToggleObserverHandler(ctx context.Context, roomID string, userID string) error {
	return h.Rooms.ToggleObserver(ctx, commands.ToggleObserverCommand{RoomID: roomID, UserID: userID})
}

// EnsureRoomHandler checks the room is live before an event stream is opened.
// It does not join the caller.
func (h Handler) EnsureRoomHandler(ctx context.Context, roomID string, userID string) error {
	_, err := h.PeekRooms.Execute(ctx, roomID, userID)
	return err
}

// CardPackagesHandler godoc
// @Summary List card packages
// @Tags voting-room
// @Produce json
// @Success 200 {object} httptransport.CardPackagesResponse
// @Router /v1/card-packages [get]
func (h Handler) CardPackagesHandler() httptransport.CardPackagesResponse {
	decks := entities.Decks()
	items := make([]httptransport.CardPackage, 0, len(decks))
	for _, deck := range decks {
		items = append(items, httptransport.CardPackage{
			Package:     string(deck.Package),
			Cards:       append([]entities.Card(nil), deck.Cards...),
			Aggregation: string(deck.Aggregation),
		})
	}
	return httptransport.CardPackagesResponse{Items: items}
}

func mapRoomView(view queries.RoomView) httptransport.RoomResponse {
	participants := make(map[string]httptransport.Participant, len(view.Participants))
	for id, participant := range view.Participants {
		participants[id] = httptransport.Participant{
			Role:       string(participant.Role),
			IsObserver: participant.IsObserver,
		}
	}
	resp := httptransport.RoomResponse{
		RoomID: view.RoomID,
		Options: httptransport.RoomOptions{
			AllowVotesAfterReveal: view.Options.AllowVotesAfterReveal,
			CardPackage:           string(view.Options.CardPackage),
		},
		Participants: participants,
		State:        string(view.State),
		Votes:        view.Votes,
	}
	if view.Summary != nil {
		resp.Summary = &httptransport.VoteSummary{
			VoteCount: view.Summary.VoteCount,
			Average:   view.Summary.Average,
		}
	}
	return resp
}
