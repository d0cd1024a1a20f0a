package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ivote/contexts/estimation/voting-room/adapters/runtime"
	"ivote/contexts/estimation/voting-room/domain/entities"
	domainerrors "ivote/contexts/estimation/voting-room/domain/errors"
	"ivote/contexts/estimation/voting-room/ports"
	"ivote/internal/shared/codec"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultRoomTTL = 6 * time.Hour

// Repository stores room snapshots in the voting_rooms table. Expired rows
// read as absent until the sweeper deletes them.
type Repository struct {
	db     *gorm.DB
	codec  codec.Codec
	ttl    time.Duration
	clock  ports.Clock
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, roomCodec codec.Codec, ttl time.Duration, logger *slog.Logger) *Repository {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		codec:  roomCodec,
		ttl:    ttl,
		clock:  runtime.SystemClock{},
		logger: logger,
	}
}

func (r *Repository) GetRoom(ctx context.Context, roomID string) (entities.Room, error) {
	roomID = strings.TrimSpace(roomID)
	var row roomModel
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("expires_at > ?", r.clock.Now()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Room{}, domainerrors.ErrRoomNotFound
		}
		return entities.Room{}, r.logError("voting_room_repo_get_failed", err, "room_id", roomID)
	}
	return r.toEntity(row)
}

// CreateRoom inserts a new row, replacing an expired row with the same id.
// A live row leaves the statement with no affected rows.
func (r *Repository) CreateRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	now := r.clock.Now()
	row, err := r.modelFromEntity(roomID, room, 1, now)
	if err != nil {
		return r.logError("voting_room_repo_encode_failed", err, "room_id", roomID)
	}
	row.CreatedAt = now

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"version":    row.Version,
			"snapshot":   row.Snapshot,
			"codec":      row.Codec,
			"expires_at": row.ExpiresAt,
			"created_at": row.CreatedAt,
			"updated_at": row.UpdatedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "voting_rooms.expires_at <= ?", Vars: []any{now}},
		}},
	}).Create(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrRoomIDTaken
		}
		return r.logError("voting_room_repo_create_failed", result.Error, "room_id", roomID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRoomIDTaken
	}
	return nil
}

// SaveRoom is a conditional update on the stored version.
func (r *Repository) SaveRoom(ctx context.Context, roomID string, room entities.Room) error {
	roomID = strings.TrimSpace(roomID)
	now := r.clock.Now()
	row, err := r.modelFromEntity(roomID, room, room.Version+1, now)
	if err != nil {
		return r.logError("voting_room_repo_encode_failed", err, "room_id", roomID)
	}

	result := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("room_id = ?", roomID).
		Where("version = ?", room.Version).
		Where("expires_at > ?", now).
		Updates(map[string]any{
			"version":    row.Version,
			"snapshot":   row.Snapshot,
			"codec":      row.Codec,
			"expires_at": row.ExpiresAt,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("voting_room_repo_save_failed", result.Error, "room_id", roomID)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var live int64
	if err := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("room_id = ?", roomID).
		Where("expires_at > ?", now).
		Count(&live).Error; err != nil {
		return r.logError("voting_room_repo_save_failed", err, "room_id", roomID)
	}
	if live == 0 {
		return domainerrors.ErrRoomNotFound
	}
	return domainerrors.ErrRoomVersionConflict
}

func (r *Repository) DeleteRoom(ctx context.Context, roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&roomModel{}).Error; err != nil {
		return r.logError("voting_room_repo_delete_failed", err, "room_id", roomID)
	}
	return nil
}

func (r *Repository) DeleteExpiredRooms(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&roomModel{})
	if result.Error != nil {
		return 0, r.logError("voting_room_repo_sweep_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) modelFromEntity(roomID string, room entities.Room, version int64, now time.Time) (roomModel, error) {
	stored := room.Clone()
	stored.Version = version
	snapshot, err := r.codec.Marshal(stored)
	if err != nil {
		return roomModel{}, err
	}
	return roomModel{
		RoomID:    roomID,
		Version:   version,
		Snapshot:  snapshot,
		Codec:     string(r.codec.Format()),
		ExpiresAt: now.Add(r.ttl),
		UpdatedAt: now,
	}, nil
}

// toEntity decodes with the codec the row was written with, so a store can
// switch formats without rewriting old rows.
func (r *Repository) toEntity(row roomModel) (entities.Room, error) {
	rowCodec := r.codec
	if row.Codec != "" && row.Codec != string(r.codec.Format()) {
		decoded, err := codec.New(row.Codec)
		if err != nil {
			return entities.Room{}, r.logError("voting_room_repo_decode_failed", err, "room_id", row.RoomID)
		}
		rowCodec = decoded
	}
	var room entities.Room
	if err := rowCodec.Unmarshal(row.Snapshot, &room); err != nil {
		return entities.Room{}, r.logError("voting_room_repo_decode_failed", err, "room_id", row.RoomID)
	}
	if room.Participants == nil {
		room.Participants = map[string]entities.Participant{}
	}
	if room.Votes == nil {
		room.Votes = map[string]entities.Card{}
	}
	room.Version = row.Version
	return room, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "estimation/voting-room",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("room repository operation failed", fields...)
	return err
}

type roomModel struct {
	RoomID    string    `gorm:"column:room_id;primaryKey"`
	Version   int64     `gorm:"column:version"`
	Snapshot  []byte    `gorm:"column:snapshot"`
	Codec     string    `gorm:"column:codec"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string {
	return "voting_rooms"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.RoomStore = (*Repository)(nil)
var _ ports.ExpiredRoomSweeper = (*Repository)(nil)
