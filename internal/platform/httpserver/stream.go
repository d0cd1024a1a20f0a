package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ivote/internal/platform/messaging"

	"github.com/gorilla/websocket"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = socketPongWait * 9 / 10
)

// handleRoomEvents streams room notifications as server-sent events, one
// "data: <json>" frame per notification. The stream ends when the client goes
// away, the subscription is evicted, or the room is closed.
func (s *Server) handleRoomEvents(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	roomID := r.PathValue("room_id")
	sink, cancel, err := s.subscribeRoom(r, roomID, userID)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	defer cancel()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case notification, ok := <-sink.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(notification)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// handleRoomSocket delivers the same notifications over a websocket, one JSON
// text frame each. Inbound frames are discarded.
func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	userID := s.resolveUserID(w, r)
	roomID := r.PathValue("room_id")
	sink, cancel, err := s.subscribeRoom(r, roomID, userID)
	if err != nil {
		writeRoomDomainError(w, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			"event", "http_websocket_upgrade_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"room_id", roomID,
			"error", err.Error(),
		)
		return
	}
	defer conn.Close()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(socketPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(socketPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readerDone:
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case notification, ok := <-sink.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(notification); err != nil {
				return
			}
		}
	}
}

// subscribeRoom registers the caller's sink before admitting them to the room.
// A room closed after admission still reaches the sink through CloseRoom,
// and one closed before it fails admission.
func (s *Server) subscribeRoom(r *http.Request, roomID string, userID string) (*messaging.ChannelSink, func(), error) {
	sink := messaging.NewChannelSink(messaging.DefaultSinkBuffer)
	cancel := s.events.Subscribe(roomID, userID, sink)
	if err := s.rooms.Handler.EnsureRoomHandler(r.Context(), roomID, userID); err != nil {
		cancel()
		return nil, nil, err
	}
	return sink, cancel, nil
}
