package commands

import (
	"context"
	"fmt"
	"sync"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
)

type fakeStore struct {
	mu    sync.Mutex
	rooms map[string]entities.Room
	saves int
	// conflicts forces the next N saves to fail with a version conflict.
	conflicts int
	// beforeSave runs once before the next save is attempted.
	beforeSave func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: map[string]entities.Room{}}
}

func (s *fakeStore) GetRoom(_ context.Context, roomID string) (entities.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return entities.Room{}, domainerrors.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *fakeStore) CreateRoom(_ context.Context, roomID string, room entities.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; ok {
		return domainerrors.ErrRoomIDTaken
	}
	room = room.Clone()
	room.Version = 1
	s.rooms[roomID] = room
	return nil
}

func (s *fakeStore) SaveRoom(_ context.Context, roomID string, room entities.Room) error {
	s.mu.Lock()
	hook := s.beforeSave
	s.beforeSave = nil
	s.mu.Unlock()
	if hook != nil {
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return domainerrors.ErrRoomVersionConflict
	}
	current, ok := s.rooms[roomID]
	if !ok {
		return domainerrors.ErrRoomNotFound
	}
	if current.Version != room.Version {
		return domainerrors.ErrRoomVersionConflict
	}
	room = room.Clone()
	room.Version++
	s.rooms[roomID] = room
	s.saves++
	return nil
}

func (s *fakeStore) DeleteRoom(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	return nil
}

func (s *fakeStore) room(roomID string) (entities.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

type publishedEvent struct {
	RoomID       string
	Type         ports.EventType
	SourceUserID string
	Payload      *ports.EventPayload
	CtxErr       error
}

type recordingPublisher struct {
	mu      sync.Mutex
	events  []publishedEvent
	evicted []string
	closed  []string
}

func (p *recordingPublisher) Publish(ctx context.Context, roomID string, eventType ports.EventType, sourceUserID string, payload *ports.EventPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{
		RoomID:       roomID,
		Type:         eventType,
		SourceUserID: sourceUserID,
		Payload:      payload,
		CtxErr:       ctx.Err(),
	})
}

func (p *recordingPublisher) Evict(roomID string, participantID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evicted = append(p.evicted, roomID+"/"+participantID)
}

func (p *recordingPublisher) CloseRoom(roomID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, roomID)
}

func (p *recordingPublisher) types() []ports.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]ports.EventType, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type sequenceIDs struct {
	ids  []string
	next int
}

func (g *sequenceIDs) NewRoomID(context.Context) (string, error) {
	if g.next >= len(g.ids) {
		return "", fmt.Errorf("sequence exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id, nil
}
