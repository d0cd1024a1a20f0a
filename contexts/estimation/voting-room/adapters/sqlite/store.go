package sqliteadapter

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ivote/contexts/estimation/voting-room/adapters/runtime"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
	"ivote/internal/shared/codec"
)

//go:embed schema.sql
var embeddedSchema embed.FS

const DefaultRoomTTL = 6 * time.Hour

// Store keeps room snapshots in a single sqlite table. Times are stored as
// unix nanoseconds.
type Store struct {
	db     *sql.DB
	codec  codec.Codec
	ttl    time.Duration
	clock  ports.Clock
	logger *slog.Logger
}

func New(db *sql.DB, roomCodec codec.Codec, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		codec:  roomCodec,
		ttl:    ttl,
		clock:  runtime.SystemClock{},
		logger: logger,
	}
}

func (s *Store) InitSchema(ctx context.Context) error {
	b, err := embeddedSchema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, strings.TrimSpace(string(b)))
	return err
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (entities.Room, error) {
	roomID = strings.TrimSpace(roomID)
	var (
		version  int64
		snapshot []byte
		format   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, snapshot, codec FROM voting_rooms WHERE room_id = ? AND expires_at > ?`,
		roomID, s.clock.Now().UnixNano(),
	).Scan(&version, &snapshot, &format)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Room{}, domainerrors.ErrRoomNotFound
		}
		return entities.Room{}, s.logError("voting_room_sqlite_get_failed", err, "room_id", roomID)
	}
	return s.decode(roomID, version, snapshot, format)
}

// CreateRoom upserts over an expired row only; a live row makes the insert
// a no-op.
func (s *Store) CreateRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	now := s.clock.Now()
	snapshot, err := s.encode(room, 1)
	if err != nil {
		return s.logError("voting_room_sqlite_encode_failed", err, "room_id", roomID)
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO voting_rooms (room_id, version, snapshot, codec, expires_at, updated_at)
VALUES (?, 1, ?, ?, ?, ?)
ON CONFLICT(room_id) DO UPDATE SET
    version = excluded.version,
    snapshot = excluded.snapshot,
    codec = excluded.codec,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at
WHERE voting_rooms.expires_at <= ?`,
		roomID, snapshot, string(s.codec.Format()), now.Add(s.ttl).UnixNano(), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return s.logError("voting_room_sqlite_create_failed", err, "room_id", roomID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return s.logError("voting_room_sqlite_create_failed", err, "room_id", roomID)
	}
	if affected == 0 {
		return domainerrors.ErrRoomIDTaken
	}
	return nil
}

func (s *Store) SaveRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	now := s.clock.Now()
	snapshot, err := s.encode(room, room.Version+1)
	if err != nil {
		return s.logError("voting_room_sqlite_encode_failed", err, "room_id", roomID)
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE voting_rooms
SET version = ?, snapshot = ?, codec = ?, expires_at = ?, updated_at = ?
WHERE room_id = ? AND version = ? AND expires_at > ?`,
		room.Version+1, snapshot, string(s.codec.Format()), now.Add(s.ttl).UnixNano(), now.UnixNano(),
		roomID, room.Version, now.UnixNano(),
	)
	if err != nil {
		return s.logError("voting_room_sqlite_save_failed", err, "room_id", roomID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return s.logError("voting_room_sqlite_save_failed", err, "room_id", roomID)
	}
	if affected == 1 {
		return nil
	}

	var live int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM voting_rooms WHERE room_id = ? AND expires_at > ?`,
		roomID, now.UnixNano(),
	).Scan(&live)
	if err != nil {
		return s.logError("voting_room_sqlite_save_failed", err, "room_id", roomID)
	}
	if live == 0 {
		return domainerrors.ErrRoomNotFound
	}
	return domainerrors.ErrRoomVersionConflict
}

func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM voting_rooms WHERE room_id = ?`, roomID); err != nil {
		return s.logError("voting_room_sqlite_delete_failed", err, "room_id", roomID)
	}
	return nil
}

func (s *Store) DeleteExpiredRooms(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM voting_rooms WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, s.logError("voting_room_sqlite_sweep_failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, s.logError("voting_room_sqlite_sweep_failed", err)
	}
	return int(affected), nil
}

func (s *Store) encode(room entities.Room, version int64) ([]byte, error) {
	stored := room.Clone()
	stored.Version = version
	return s.codec.Marshal(stored)
}

func (s *Store) decode(roomID string, version int64, snapshot []byte, format string) (entities.Room, error) {
	rowCodec := s.codec
	if format != "" && format != string(s.codec.Format()) {
		decoded, err := codec.New(format)
		if err != nil {
			return entities.Room{}, s.logError("voting_room_sqlite_decode_failed", err, "room_id", roomID)
		}
		rowCodec = decoded
	}
	var room entities.Room
	if err := rowCodec.Unmarshal(snapshot, &room); err != nil {
		return entities.Room{}, s.logError("voting_room_sqlite_decode_failed", err, "room_id", roomID)
	}
	if room.Participants == nil {
		room.Participants = map[string]entities.Participant{}
	}
	if room.Votes == nil {
		room.Votes = map[string]entities.Card{}
	}
	room.Version = version
	return room, nil
}

func (s *Store) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "estimation/voting-room",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	s.logger.Error("room store operation failed", fields...)
	return err
}

var _ ports.RoomStore = (*Store)(nil)
var _ ports.ExpiredRoomSweeper = (*Store)(nil)
