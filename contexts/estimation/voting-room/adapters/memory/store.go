package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"ivote/contexts/estimation/voting-room/adapters/runtime"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
)

const DefaultRoomTTL = 6 * time.Hour

type roomRecord struct {
	room      entities.Room
	expiresAt time.Time
}

// Store keeps rooms in process memory. Expired rooms read as absent and are
// dropped by DeleteExpiredRooms.
type Store struct {
	runtime.RoomIDs

	mu    sync.RWMutex
	rooms map[string]roomRecord
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	return &Store{
		rooms: make(map[string]roomRecord),
		ttl:   ttl,
		now:   runtime.SystemClock{}.Now,
	}
}

// SetClock swaps the time source; tests use it to move past expiry.
func (s *Store) SetClock(clock ports.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = clock.Now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().UTC()
}

func (s *Store) GetRoom(_ context.Context, roomID string) (entities.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.liveRecord(strings.TrimSpace(roomID))
	if !ok {
		return entities.Room{}, domainerrors.ErrRoomNotFound
	}
	return record.room.Clone(), nil
}

func (s *Store) CreateRoom(_ context.Context, roomID string, room entities.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID = strings.TrimSpace(roomID)
	if _, ok := s.liveRecord(roomID); ok {
		return domainerrors.ErrRoomIDTaken
	}
	stored := room.Clone()
	stored.Version = 1
	s.rooms[roomID] = roomRecord{room: stored, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *Store) SaveRoom(_ context.Context, roomID string, room entities.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID = strings.TrimSpace(roomID)
	current, ok := s.liveRecord(roomID)
	if !ok {
		return domainerrors.ErrRoomNotFound
	}
	if current.room.Version != room.Version {
		return domainerrors.ErrRoomVersionConflict
	}
	stored := room.Clone()
	stored.Version = room.Version + 1
	s.rooms[roomID] = roomRecord{room: stored, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, strings.TrimSpace(roomID))
	return nil
}

func (s *Store) DeleteExpiredRooms(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for roomID, record := range s.rooms {
		if !now.Before(record.expiresAt) {
			delete(s.rooms, roomID)
			deleted++
		}
	}
	return deleted, nil
}

// liveRecord must be called with mu held.
func (s *Store) liveRecord(roomID string) (roomRecord, bool) {
	record, ok := s.rooms[roomID]
	if !ok || !s.now().Before(record.expiresAt) {
		return roomRecord{}, false
	}
	return record, true
}

var _ ports.RoomStore = (*Store)(nil)
var _ ports.ExpiredRoomSweeper = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.RoomIDGenerator = (*Store)(nil)
