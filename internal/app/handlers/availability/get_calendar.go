package availability

import (
	"context"
	"time"

	"innkeeper/internal/app/dto"
	handlersupport "innkeeper/internal/app/handlers/support"
	"innkeeper/internal/app/queries"
	"innkeeper/internal/app/uow"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
)

const (
	getRoomCalendarKey   = "availability.calendar"
	checkAvailabilityKey = "availability.check"
)

type GetRoomCalendarQuery struct {
	RoomID string
}

func (q GetRoomCalendarQuery) Key() string { return getRoomCalendarKey }

// GetRoomCalendarHandler returns the occupied ranges for one room, ordered
// by check-in ascending. Reading never mutates the calendar.
type GetRoomCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRoomCalendarHandler) Handle(ctx context.Context, q GetRoomCalendarQuery) (dto.RoomCalendar, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Rooms().ByID(execCtx, domainroom.ID(q.RoomID)); err != nil {
		return dto.RoomCalendar{}, err
	}
	calendar, err := unit.Availability().Calendar(execCtx, domainroom.ID(q.RoomID))
	if err != nil {
		return dto.RoomCalendar{}, err
	}
	return dto.MapRoomCalendar(q.RoomID, calendar.OccupiedRanges()), nil
}

type CheckAvailabilityQuery struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityResult struct {
	RoomID string `json:"room_id"`
	Free   bool   `json:"free"`
}

// CheckAvailabilityHandler answers whether a range is free. An invalid
// range (check-out not after check-in) is never free; that is an answer,
// not an error.
type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (CheckAvailabilityResult, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Rooms().ByID(execCtx, domainroom.ID(q.RoomID)); err != nil {
		return CheckAvailabilityResult{}, err
	}

	dr := domainrange.DateRange{CheckIn: domainrange.Day(q.CheckIn), CheckOut: domainrange.Day(q.CheckOut)}
	if dr.Validate() != nil {
		return CheckAvailabilityResult{RoomID: q.RoomID, Free: false}, nil
	}

	calendar, err := unit.Availability().Calendar(execCtx, domainroom.ID(q.RoomID))
	if err != nil {
		return CheckAvailabilityResult{}, err
	}
	return CheckAvailabilityResult{RoomID: q.RoomID, Free: calendar.CanReserve(dr)}, nil
}

var _ queries.Handler[GetRoomCalendarQuery, dto.RoomCalendar] = (*GetRoomCalendarHandler)(nil)
var _ queries.Handler[CheckAvailabilityQuery, CheckAvailabilityResult] = (*CheckAvailabilityHandler)(nil)
