package postgresadapter

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/domain/services"
	"ivote/internal/platform/db"
	"ivote/internal/shared/codec"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

// newTestRepository needs a disposable database in IVOTE_TEST_POSTGRES_DSN.
func newTestRepository(t *testing.T) (*Repository, *manualClock) {
	t.Helper()
	dsn := os.Getenv("IVOTE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("IVOTE_TEST_POSTGRES_DSN not set")
	}
	pg, err := db.Connect(dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = pg.Close() })
	if err := pg.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pg.DB.Exec("DELETE FROM voting_rooms").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewRepository(pg.DB, codec.JSON(), time.Hour, nil)
	clock := &manualClock{now: time.Now().UTC().Truncate(time.Microsecond)}
	repo.clock = clock
	return repo, clock
}

func newRoom() entities.Room {
	room := services.CreateRoom(entities.RoomOptions{CardPackage: entities.CardPackageFibonacci}, "u1")
	return services.AddParticipant(room, "u2")
}

func TestRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	if err := repo.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateRoom(ctx, "12345", newRoom()); !errors.Is(err, domainerrors.ErrRoomIDTaken) {
		t.Fatalf("expected id taken, got %v", err)
	}

	room, err := repo.GetRoom(ctx, "12345")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stale := room
	if err := repo.SaveRoom(ctx, "12345", services.CastVote(room, "u2", "13")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveRoom(ctx, "12345", stale); !errors.Is(err, domainerrors.ErrRoomVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	room, _ = repo.GetRoom(ctx, "12345")
	if room.Votes["u2"] != "13" || room.Version != 2 {
		t.Fatalf("unexpected room %+v", room)
	}

	clock.now = clock.now.Add(2 * time.Hour)
	if _, err := repo.GetRoom(ctx, "12345"); !errors.Is(err, domainerrors.ErrRoomNotFound) {
		t.Fatalf("expected expired room to be absent, got %v", err)
	}
	if err := repo.CreateRoom(ctx, "12345", newRoom()); err != nil {
		t.Fatalf("expired id should be reusable: %v", err)
	}

	deleted, err := repo.DeleteExpiredRooms(ctx, clock.now.Add(2*time.Hour))
	if err != nil || deleted != 1 {
		t.Fatalf("expected one expired room swept, got %d (%v)", deleted, err)
	}
}
