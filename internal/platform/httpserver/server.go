package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	votingroom "ivote/contexts/estimation/voting-room"
	roomerrors "ivote/contexts/estimation/voting-room/domain/errors"
	roomhttp "ivote/contexts/estimation/voting-room/transport/http"
	"ivote/internal/platform/messaging"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "ivote/internal/platform/httpserver/docs"
)

type Options struct {
	Addr          string
	SecureCookies bool
	// SessionSecret signs session cookies. When empty a random key is used
	// and sessions do not survive a restart.
	SessionSecret string
	// TrustUserHeader accepts X-User-Id as the caller identity. Only enable
	// it behind a gateway that sets the header itself.
	TrustUserHeader bool
	// HeartbeatInterval spaces keep-alive comments on idle event streams.
	HeartbeatInterval time.Duration
}

type Server struct {
	mux       *http.ServeMux
	srv       *http.Server
	logger    *slog.Logger
	addr      string
	rooms     votingroom.Module
	events    *messaging.Broadcaster
	upgrader    websocket.Upgrader
	sessions    *securecookie.SecureCookie
	secure      bool
	trustHeader bool
	heartbeat   time.Duration
}

func New(
	rooms votingroom.Module,
	events *messaging.Broadcaster,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 25 * time.Second
	}

	hashKey := []byte(opts.SessionSecret)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		logger.Warn("no session secret configured, using an ephemeral key",
			"event", "http_session_key_ephemeral",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
	}
	sessions := securecookie.New(hashKey, nil)
	sessions.MaxAge(int(sessionMaxAge.Seconds()))
	sessions.SetSerializer(securecookie.JSONEncoder{})

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        opts.Addr,
		rooms:       rooms,
		events:      events,
		sessions:    sessions,
		secure:      opts.SecureCookies,
		trustHeader: opts.TrustUserHeader,
		heartbeat:   opts.HeartbeatInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.registerRoutes()
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler is the full middleware chain in front of the routes.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.mux)
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes every live event stream first so that in-flight stream
// handlers return, then drains regular requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.events != nil {
		s.events.Shutdown()
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /v1/card-packages", s.handleCardPackages)
	s.mux.HandleFunc("POST /v1/rooms", s.handleCreateRoom)
	s.mux.HandleFunc("GET /v1/rooms/{room_id}", s.handleGetRoom)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/leave", s.handleLeaveRoom)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/kick", s.handleKickParticipant)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/reveal", s.handleRevealRoom)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/reset", s.handleResetRoom)
	s.mux.HandleFunc("POST /v1/rooms/{room_id}/observer", s.handleToggleObserver)
	s.mux.HandleFunc("GET /v1/rooms/{room_id}/events", s.handleRoomEvents)
	s.mux.HandleFunc("GET /v1/rooms/{room_id}/ws", s.handleRoomSocket)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCardPackages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms.Handler.CardPackagesHandler())
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)

	var req roomhttp.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoomError(w, http.StatusBadRequest, "InvalidRequestError", "request body must be valid JSON")
		return
	}

	resp, err := s.rooms.Handler.CreateRoomHandler(r.Context(), userID, req)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	resp, err := s.rooms.Handler.GetRoomHandler(r.Context(), r.PathValue("room_id"), userID)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)

	var req roomhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoomError(w, http.StatusBadRequest, "InvalidRequestError", "request body must be valid JSON")
		return
	}
	err := s.rooms.Handler.CastVoteHandler(r.Context(), r.PathValue("room_id"), userID, req)
	writeNoContent(w, err)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	writeNoContent(w, s.rooms.Handler.LeaveRoomHandler(r.Context(), r.PathValue("room_id"), userID))
}

func (s *Server) handleKickParticipant(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)

	var req roomhttp.KickParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoomError(w, http.StatusBadRequest, "InvalidRequestError", "request body must be valid JSON")
		return
	}
	err := s.rooms.Handler.KickParticipantHandler(r.Context(), r.PathValue("room_id"), userID, req)
	writeNoContent(w, err)
}

func (s *Server) handleRevealRoom(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	writeNoContent(w, s.rooms.Handler.RevealRoomHandler(r.Context(), r.PathValue("room_id"), userID))
}

func (s *Server) handleResetRoom(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	writeNoContent(w, s.rooms.Handler.ResetRoomHandler(r.Context(), r.PathValue("room_id"), userID))
}

func (s *Server) handleToggleObserver(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	writeNoContent(w, s.rooms.Handler.ToggleObserverHandler(r.Context(), r.PathValue("room_id"), userID))
}

var businessMessages = map[roomerrors.Code]string{
	roomerrors.CodeKickSelf:          "you cannot kick yourself",
	roomerrors.CodeNotOwner:          "only the room owner can do this",
	roomerrors.CodeUserAlreadyInRoom: "participant is already in the room",
	roomerrors.CodeUserNotInRoom:     "participant is not in the room",
	roomerrors.CodeVotingNotAllowed:  "voting is not allowed right now",
}

func writeRoomDomainError(w http.ResponseWriter, err error) {
	if businessErr, ok := roomerrors.AsBusinessError(err); ok {
		writeRoomError(w, businessErr.Status, string(businessErr.Code), businessMessages[businessErr.Code])
		return
	}
	switch {
	case errors.Is(err, roomerrors.ErrRoomNotFound):
		writeRoomError(w, http.StatusNotFound, "RoomNotFound", err.Error())
	case errors.Is(err, roomerrors.ErrInvalidRequest),
		errors.Is(err, roomerrors.ErrInvalidCard),
		errors.Is(err, roomerrors.ErrUnknownCardPackage):
		writeRoomError(w, http.StatusBadRequest, "InvalidRequestError", err.Error())
	case errors.Is(err, roomerrors.ErrRoomVersionConflict):
		writeRoomError(w, http.StatusConflict, "ConcurrentUpdateError", err.Error())
	default:
		writeRoomError(w, http.StatusInternalServerError, "InternalError", "internal server error")
	}
}

func writeNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRoomError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, roomhttp.ErrorResponse{
		ErrorCode: code,
		Message:   message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
