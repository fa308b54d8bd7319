package rooms

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	"innkeeper/internal/app/uow"
	domainroom "innkeeper/internal/domain/room"
)

const (
	createRoomKey = "admin.rooms.create"
	updateRoomKey = "admin.rooms.update"
	deleteRoomKey = "admin.rooms.delete"
)

type CreateRoomCommand struct {
	RoomID           string
	Name             string
	Description      string
	Type             string
	Capacity         int
	NightlyRateCents int64
	SizeSqft         int
	Amenities        []string
	Photos           []string
	Available        bool
}

func (c CreateRoomCommand) Key() string { return createRoomKey }

type CreateRoomHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *CreateRoomHandler) Handle(ctx context.Context, cmd CreateRoomCommand) (*dto.RoomView, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	id := cmd.RoomID
	if id == "" {
		id = uuid.NewString()
	}
	rm, err := domainroom.New(domainroom.CreateParams{
		ID:               domainroom.ID(id),
		Name:             cmd.Name,
		Description:      cmd.Description,
		Type:             domainroom.Type(cmd.Type),
		Capacity:         cmd.Capacity,
		NightlyRateCents: cmd.NightlyRateCents,
		SizeSqft:         cmd.SizeSqft,
		Amenities:        cmd.Amenities,
		Photos:           cmd.Photos,
		Available:        cmd.Available,
		Now:              h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room created", "room_id", rm.ID, "type", rm.Type)
	}
	view := dto.MapRoom(rm)
	return &view, nil
}

type UpdateRoomCommand struct {
	RoomID           string
	Name             *string
	Description      *string
	Type             *string
	Capacity         *int
	NightlyRateCents *int64
	SizeSqft         *int
	Amenities        []string
	Available        *bool
}

func (c UpdateRoomCommand) Key() string { return updateRoomKey }

type UpdateRoomHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *UpdateRoomHandler) Handle(ctx context.Context, cmd UpdateRoomCommand) (*dto.RoomView, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	rm, err := unit.Rooms().ByID(ctx, domainroom.ID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	params := domainroom.UpdateParams{
		Name:             cmd.Name,
		Description:      cmd.Description,
		Capacity:         cmd.Capacity,
		NightlyRateCents: cmd.NightlyRateCents,
		SizeSqft:         cmd.SizeSqft,
		Amenities:        cmd.Amenities,
		Available:        cmd.Available,
	}
	if cmd.Type != nil {
		roomType := domainroom.Type(*cmd.Type)
		params.Type = &roomType
	}
	if err := rm.Update(params, h.now()); err != nil {
		return nil, err
	}
	if err := unit.Rooms().Save(ctx, rm); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room updated", "room_id", rm.ID)
	}
	view := dto.MapRoom(rm)
	return &view, nil
}

type DeleteRoomCommand struct {
	RoomID string
}

func (c DeleteRoomCommand) Key() string { return deleteRoomKey }

type DeleteRoomResult struct {
	RoomID string `json:"room_id"`
}

// DeleteRoomHandler removes the room from inventory. Reservations that
// reference it are left untouched; history keeps the dangling identifier.
type DeleteRoomHandler struct {
	Logger *slog.Logger
}

func (h *DeleteRoomHandler) Handle(ctx context.Context, cmd DeleteRoomCommand) (*DeleteRoomResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	if _, err := unit.Rooms().ByID(ctx, domainroom.ID(cmd.RoomID)); err != nil {
		return nil, err
	}
	if err := unit.Rooms().Delete(ctx, domainroom.ID(cmd.RoomID)); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("room deleted", "room_id", cmd.RoomID)
	}
	return &DeleteRoomResult{RoomID: cmd.RoomID}, nil
}

func (h *CreateRoomHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *UpdateRoomHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var _ commands.Handler[CreateRoomCommand, *dto.RoomView] = (*CreateRoomHandler)(nil)
var _ commands.Handler[UpdateRoomCommand, *dto.RoomView] = (*UpdateRoomHandler)(nil)
var _ commands.Handler[DeleteRoomCommand, *DeleteRoomResult] = (*DeleteRoomHandler)(nil)
