package workers

import (
	"context"
	"log/slog"
	"time"

	application "ivote/contexts/estimation/voting-room/application"
	"ivote/contexts/estimation/voting-room/ports"
)

// RoomExpirySweeper removes rooms whose idle lifetime elapsed in stores that
// cannot expire keys on their own.
type RoomExpirySweeper struct {
	Rooms  ports.ExpiredRoomSweeper
	Clock  ports.Clock
	Logger *slog.Logger
}

func (j RoomExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	deleted, err := j.Rooms.DeleteExpiredRooms(ctx, now)
	if err != nil {
		logger.Error("room expiry sweep failed",
			"event", "voting_room_expiry_sweep_failed",
			"module", "estimation/voting-room",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if deleted > 0 {
		logger.Info("room expiry sweep completed",
			"event", "voting_room_expiry_sweep_completed",
			"module", "estimation/voting-room",
			"layer", "worker",
			"deleted_count", deleted,
		)
	}
	return deleted, nil
}

// Run sweeps on every tick until ctx is cancelled. Sweep failures are logged
// and retried on the next tick.
func (j RoomExpirySweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = j.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
