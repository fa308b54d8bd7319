package rooms

import (
	"context"
	"sort"

	"innkeeper/internal/app/dto"
	handlersupport "innkeeper/internal/app/handlers/support"
	"innkeeper/internal/app/queries"
	"innkeeper/internal/app/uow"
	domainroom "innkeeper/internal/domain/room"
)

const (
	listRoomsKey     = "rooms.list"
	getRoomKey       = "rooms.get"
	featuredRoomsKey = "rooms.featured"

	featuredLimit = 6
)

type ListRoomsQuery struct{}

func (q ListRoomsQuery) Key() string { return listRoomsKey }

type ListRoomsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRoomsHandler) Handle(ctx context.Context, q ListRoomsQuery) (dto.RoomCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Rooms().List(execCtx)
	if err != nil {
		return dto.RoomCollection{}, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return dto.MapRooms(all), nil
}

type GetRoomQuery struct {
	RoomID string
}

func (q GetRoomQuery) Key() string { return getRoomKey }

type GetRoomHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRoomHandler) Handle(ctx context.Context, q GetRoomQuery) (dto.RoomView, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	rm, err := unit.Rooms().ByID(execCtx, domainroom.ID(q.RoomID))
	if err != nil {
		return dto.RoomView{}, err
	}
	return dto.MapRoom(rm), nil
}

type FeaturedRoomsQuery struct{}

func (q FeaturedRoomsQuery) Key() string { return featuredRoomsKey }

// FeaturedRoomsHandler picks the newest available rooms, capped at six.
type FeaturedRoomsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *FeaturedRoomsHandler) Handle(ctx context.Context, q FeaturedRoomsQuery) (dto.RoomCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Rooms().List(execCtx)
	if err != nil {
		return dto.RoomCollection{}, err
	}
	available := make([]*domainroom.Room, 0, len(all))
	for _, rm := range all {
		if rm.Available {
			available = append(available, rm)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].CreatedAt.After(available[j].CreatedAt) })
	if len(available) > featuredLimit {
		available = available[:featuredLimit]
	}
	return dto.MapRooms(available), nil
}

var _ queries.Handler[ListRoomsQuery, dto.RoomCollection] = (*ListRoomsHandler)(nil)
var _ queries.Handler[GetRoomQuery, dto.RoomView] = (*GetRoomHandler)(nil)
var _ queries.Handler[FeaturedRoomsQuery, dto.RoomCollection] = (*FeaturedRoomsHandler)(nil)
