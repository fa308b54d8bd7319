package booking

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"innkeeper/internal/app/dto"
	handlersupport "innkeeper/internal/app/handlers/support"
	"innkeeper/internal/app/queries"
	"innkeeper/internal/app/uow"
)

const listReservationsKey = "admin.reservations.list"

const allStatusesFilterValue = "all"

type ListReservationsQuery struct {
	Status string
}

func (q ListReservationsQuery) Key() string { return listReservationsKey }

type ListReservationsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListReservationsHandler) Handle(ctx context.Context, q ListReservationsQuery) (dto.ReservationCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReservationCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Reservations().ListAll(execCtx)
	if err != nil {
		return dto.ReservationCollection{}, err
	}

	statusFilter := strings.ToLower(strings.TrimSpace(q.Status))
	filterAll := statusFilter == "" || statusFilter == allStatusesFilterValue

	items := make([]dto.ReservationView, 0, len(all))
	for _, res := range all {
		if !filterAll && string(res.Status) != statusFilter {
			continue
		}
		items = append(items, dto.MapReservation(res))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if h.Logger != nil {
		h.Logger.Debug("reservations listed", "count", len(items), "status", statusFilter)
	}

	return dto.ReservationCollection{Items: items}, nil
}

var _ queries.Handler[ListReservationsQuery, dto.ReservationCollection] = (*ListReservationsHandler)(nil)
