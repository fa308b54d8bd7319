package me

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"innkeeper/internal/app/dto"
	handlersupport "innkeeper/internal/app/handlers/support"
	"innkeeper/internal/app/queries"
	"innkeeper/internal/app/uow"
	domainroom "innkeeper/internal/domain/room"
)

const listHolderReservationsKey = "me.reservations.list"

type ListHolderReservationsQuery struct {
	HolderID string
}

func (q ListHolderReservationsQuery) Key() string { return listHolderReservationsKey }

// ListHolderReservationsHandler builds the holder's bookings view by
// joining each reservation with its room explicitly. A deleted room
// degrades to an identifier-only snapshot instead of failing the listing.
type ListHolderReservationsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListHolderReservationsHandler) Handle(ctx context.Context, q ListHolderReservationsQuery) (dto.HolderReservationCollection, error) {
	holderID := strings.TrimSpace(q.HolderID)
	if holderID == "" {
		return dto.HolderReservationCollection{}, errors.New("holder id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HolderReservationCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	reservations, err := unit.Reservations().ListByHolder(execCtx, holderID)
	if err != nil {
		return dto.HolderReservationCollection{}, err
	}

	roomCache := make(map[string]*domainroom.Room)
	items := make([]dto.HolderReservationSummary, 0, len(reservations))
	for _, res := range reservations {
		rm, cached := roomCache[string(res.RoomID)]
		if !cached {
			rm, err = unit.Rooms().ByID(execCtx, res.RoomID)
			if err != nil && !errors.Is(err, domainroom.ErrNotFound) {
				return dto.HolderReservationCollection{}, err
			}
			roomCache[string(res.RoomID)] = rm
		}
		items = append(items, dto.MapHolderReservationSummary(res, rm))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if h.Logger != nil {
		h.Logger.Debug("holder reservations listed", "holder_id", holderID, "count", len(items))
	}

	return dto.HolderReservationCollection{Items: items}, nil
}

var _ queries.Handler[ListHolderReservationsQuery, dto.HolderReservationCollection] = (*ListHolderReservationsHandler)(nil)
