package redisadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/internal/shared/codec"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, format string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	roomCodec, err := codec.New(format)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return NewStore(client, roomCodec, time.Hour, nil), server
}

func newRoom() entities.Room {
	room := services.CreateRoom(entities.RoomOptions{CardPackage: entities.CardPackageMountainGoat}, "u1")
	room = services.AddParticipant(room, "u2")
	return services.CastVote(room, "u2", "0.5")
}

func TestStoreRoundTripsSnapshot(t *testing.T) {
	for _, format := range []string{"json", "cbor"} {
		t.Run(format, func(t *testing.T) {
			ctx := context.Background()
			store, _ := newTestStore(t, format)

			if err := store.CreateRoom(ctx, "12345", newRoom()); err != nil {
				t.Fatalf("create: %v", err)
			}
			room, err := store.GetRoom(ctx, "12345")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !room.IsOwner("u1") || room.Votes["u2"] != "0.5" || room.Version != 1 {
				t.Fatalf("unexpected room %+v", room)
			}
			if room.Options.CardPackage != entities.CardPackageMountainGoat || room.State != entities.RoomStateVoting {
				t.Fatalf("unexpected room options/state %+v", room)
			}
		})
	}
}

func TestStoreKeysRoomsUnderRoomPrefix(t *testing.T) {
	ctx := context.Background()
	store, server := newTestStore(t, "json")

	if err := store.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if keys := server.Keys(); len(keys) != 1 || keys[0] != "room:12345" {
		t.Fatalf("expected a single room:12345 key, got %v", keys)
	}
	if ttl := server.TTL("room:12345"); ttl != time.Hour {
		t.Fatalf("expected room key ttl 1h, got %s", ttl)
	}
}

func TestStoreCreateRejectsLiveID(t *testing.T) {
	ctx := context.Background()
	store, server := newTestStore(t, "json")

	_ = store.CreateRoom(ctx, "12345", newRoom())
	if err := store.CreateRoom(ctx, "12345", newRoom()); !errors.Is(err, domainerrors.ErrRoomIDTaken) {
		t.Fatalf("expected id taken, got %v", err)
	}

	server.FastForward(2 * time.Hour)
	if _, err := store.GetRoom(ctx, "12345"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected expired room to be gone, got %v", err)
	}
	if err := store.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("expired id should be reusable: %v", err)
	}
}

func TestStoreSaveChecksVersion(t *testing.T) {
	ctx := context.Background()
	store, server := newTestStore(t, "cbor")
	_ = store.CreateRoom(ctx, "12345", newRoom())

	room, _ := store.GetRoom(ctx, "12345")
	stale := room
	server.FastForward(30 * time.Minute)

	if err := store.SaveRoom(ctx, "12345", services.SetRoomState(room, entities.RoomStateRevealed)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := server.TTL(roomKey("12345")); ttl != time.Hour {
		t.Fatalf("expected ttl refreshed to 1h, got %s", ttl)
	}
	if err := store.SaveRoom(ctx, "12345", services.AddParticipant(stale, "u3")); !errors.Is(err, domainerrors.ErrRoomVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	room, _ = store.GetRoom(ctx, "12345")
	if room.State != entities.RoomStateRevealed || room.HasParticipant("u3") || room.Version != 2 {
		t.Fatalf("unexpected room %+v", room)
	}
}

func TestStoreSaveAndDeleteMissingRoom(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, "json")

	if err := store.SaveRoom(ctx, "12345", newRoom()); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_ = store.CreateRoom(ctx, "12345", newRoom())
	if err := store.DeleteRoom(ctx, "12345"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetRoom(ctx, "12345"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
