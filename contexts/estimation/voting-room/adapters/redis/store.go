package redisadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
	"ivote/internal/shared/codec"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "room:"
	DefaultRoomTTL = 6 * time.Hour
)

// Store keeps one encoded snapshot per room key. Redis expires idle rooms on
// its own, so the store needs no sweeper.
type Store struct {
	client redis.UniversalClient
	codec  codec.Codec
	ttl    time.Duration
	logger *slog.Logger
}

func NewStore(client redis.UniversalClient, roomCodec codec.Codec, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		codec:  roomCodec,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (entities.Room, error) {
	roomID = strings.TrimSpace(roomID)
	data, err := s.client.Get(ctx, roomKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entities.Room{}, domainerrors.ErrRoomNotFound
		}
		return entities.Room{}, s.logError("voting_room_redis_get_failed", err, "room_id", roomID)
	}
	return s.decode(roomID, data)
}

func (s *Store) CreateRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	stored := room.Clone()
	stored.Version = 1
	data, err := s.codec.Marshal(stored)
	if err != nil {
		return s.logError("voting_room_redis_encode_failed", err, "room_id", roomID)
	}
	created, err := s.client.SetNX(ctx, roomKey(roomID), data, s.ttl).Result()
	if err != nil {
		return s.logError("voting_room_redis_create_failed", err, "room_id", roomID)
	}
	if !created {
		return domainerrors.ErrRoomIDTaken
	}
	return nil
}

// SaveRoom watches the room key so that a write landing between the version
// check and EXEC aborts the transaction.
func (s *Store) SaveRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	key := roomKey(roomID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domainerrors.ErrRoomNotFound
			}
			return err
		}
		current, err := s.decode(roomID, data)
		if err != nil {
			return err
		}
		if current.Version != room.Version {
			return domainerrors.ErrRoomVersionConflict
		}

		stored := room.Clone()
		stored.Version = room.Version + 1
		next, err := s.codec.Marshal(stored)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, s.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return domainerrors.ErrRoomVersionConflict
	case errors.Is(err, domainerrors.ErrRoomNotFound), errors.Is(err, domainerrors.ErrRoomVersionConflict):
		return err
	default:
		return s.logError("voting_room_redis_save_failed", err, "room_id", roomID)
	}
}

func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if err := s.client.Del(ctx, roomKey(roomID)).Err(); err != nil {
		return s.logError("voting_room_redis_delete_failed", err, "room_id", roomID)
	}
	return nil
}

func (s *Store) decode(roomID string, data []byte) (entities.Room, error) {
	var room entities.Room
	if err := s.codec.Unmarshal(data, &room); err != nil {
		return entities.Room{}, s.logError("voting_room_redis_decode_failed", err,
			"room_id", roomID,
			"codec", string(s.codec.Format()),
		)
	}
	if room.Participants == nil {
		room.Participants = map[string]entities.Participant{}
	}
	if room.Votes == nil {
		room.Votes = map[string]entities.Card{}
	}
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

func roomKey(roomID string) string {
	return keyPrefix + roomID
}

var _ ports.RoomStore = (*Store)(nil)
