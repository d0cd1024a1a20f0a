package votingroom

import (
	"log/slog"

	httpadapter "ivote/contexts/estimation/voting-room/adapters/http"
	"ivote/contexts/estimation/voting-room/adapters/memory"
	"ivote/contexts/estimation/voting-room/application/commands"
	"ivote/contexts/estimation/voting-room/application/queries"
	"ivote/contexts/estimation/voting-room/application/workers"
	"ivote/contexts/estimation/voting-room/ports"
)

type Module struct {
	Handler httpadapter.Handler
	// Sweeper is nil when the store expires rooms on its own.
	Sweeper *workers.RoomExpirySweeper
	Store   *memory.Store
}

type Dependencies struct {
	Rooms   ports.RoomStore
	Events  ports.EventPublisher
	RoomIDs ports.RoomIDGenerator
	Clock   ports.Clock
	// Expired is nil for stores that expire rooms natively.
	Expired ports.ExpiredRoomSweeper
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rooms := commands.RoomUseCase{
		Rooms:   deps.Rooms,
		Events:  deps.Events,
		RoomIDs: deps.RoomIDs,
		Logger:  deps.Logger,
	}
	module := Module{
		Handler: httpadapter.Handler{
			Rooms: rooms,
			PeekRooms: queries.GetRoomUseCase{
				Rooms:  deps.Rooms,
				Logger: deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
	if deps.Expired != nil {
		module.Sweeper = &workers.RoomExpirySweeper{
			Rooms:  deps.Expired,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		}
	}
	return module
}

func NewInMemoryModule(events ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(memory.DefaultRoomTTL)
	module := NewModule(Dependencies{
		Rooms:   store,
		Events:  events,
		RoomIDs: store,
		Clock:   store,
		Expired: store,
		Logger:  logger,
	})
	module.Store = store
	return module
}
