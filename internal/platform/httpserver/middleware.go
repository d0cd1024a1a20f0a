package httpserver

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-Id"
	userIDHeader      = "X-User-Id"
	sessionCookieName = "ivote_session"
	sessionMaxAge     = 30 * 24 * time.Hour
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack is needed by the websocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("http request completed",
			"event", "http_request_completed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

// resolveUserID identifies the caller from the signed session cookie, or
// from X-User-Id when the server runs behind a gateway that asserts it. A
// caller with neither gets a new session. The cookie is rewritten on every
// request to extend its lifetime.
func (s *Server) resolveUserID(w http.ResponseWriter, r *http.Request) string {
	if s.trustHeader {
		if fromHeader := strings.TrimSpace(r.Header.Get(userIDHeader)); fromHeader != "" {
			return fromHeader
		}
	}

	userID, ok := s.readSession(r)
	if !ok {
		userID = uuid.NewString()
	}

	encoded, err := s.sessions.Encode(sessionCookieName, userID)
	if err != nil {
		s.logger.Error("session cookie encode failed",
			"event", "http_session_encode_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		return userID
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return userID
}

// readSession returns the participant id sealed in the session cookie.
// Unsigned, tampered or expired cookies are ignored.
func (s *Server) readSession(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	var userID string
	if err := s.sessions.Decode(sessionCookieName, cookie.Value, &userID); err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
