package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func newRoom() entities.Room {
	return services.CreateRoom(entities.RoomOptions{CardPackage: entities.CardPackageMountainGoat}, "u1")
}

func TestStoreCreateGetAndVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Hour)

	if err := store.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateRoom(ctx, "12345", newRoom()); !errors.Is(err, domainerrors.ErrRoomIDTaken) {
		t.Fatalf("expected id taken, got %v", err)
	}

	room, err := store.GetRoom(ctx, "12345")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stale := room

	if err := store.SaveRoom(ctx, "12345", services.AddParticipant(room, "u2")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveRoom(ctx, "12345", services.AddParticipant(stale, "u3")); !errors.Is(err, domainerrors.ErrRoomVersionConflict) {
		t.Fatalf("expected conflict on stale save, got %v", err)
	}

	room, _ = store.GetRoom(ctx, "12345")
	if !room.HasParticipant("u2") || room.HasParticipant("u3") || room.Version != stale.Version+1 {
		t.Fatalf("unexpected room %+v", room)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Hour)
	_ = store.CreateRoom(ctx, "12345", newRoom())

	room, _ := store.GetRoom(ctx, "12345")
	room.Participants["u9"] = entities.Participant{}

	again, _ := store.GetRoom(ctx, "12345")
	if again.HasParticipant("u9") {
		t.Fatalf("caller mutation leaked into store")
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewStore(time.Hour)
	store.SetClock(clock)
	_ = store.CreateRoom(ctx, "12345", newRoom())
	_ = store.CreateRoom(ctx, "54321", newRoom())

	clock.now = clock.now.Add(30 * time.Minute)
	room, _ := store.GetRoom(ctx, "54321")
	if err := store.SaveRoom(ctx, "54321", room); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	clock.now = clock.now.Add(31 * time.Minute)
	if _, err := store.GetRoom(ctx, "12345"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected expired room to be absent, got %v", err)
	}
	if _, err := store.GetRoom(ctx, "54321"); err != nil {
		t.Fatalf("refreshed room should be live: %v", err)
	}
	if err := store.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("expired id should be reusable: %v", err)
	}

	clock.now = clock.now.Add(2 * time.Hour)
	deleted, err := store.DeleteExpiredRooms(ctx, clock.now)
	if err != nil || deleted != 2 {
		t.Fatalf("expected 2 expired rooms deleted, got %d (%v)", deleted, err)
	}
}

func TestStoreDeleteRoom(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0)
	_ = store.CreateRoom(ctx, "12345", newRoom())
	if err := store.DeleteRoom(ctx, "12345"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetRoom(ctx, "12345"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	room := newRoom()
	if err := store.SaveRoom(ctx, "12345", room); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("save on deleted room should be not found, got %v", err)
	}
}
