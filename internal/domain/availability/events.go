package availability

import (
	"time"

	"innkeeper/internal/domain/room"
	"innkeeper/internal/domain/shared/daterange"
)

type RangeBlocked struct {
	RoomID    room.ID
	Range     daterange.DateRange
	Reference string
	At        time.Time
}

func (e RangeBlocked) EventName() string     { return "availability.range_blocked" }
func (e RangeBlocked) AggregateID() string   { return string(e.RoomID) }
func (e RangeBlocked) OccurredAt() time.Time { return e.At }

type RangeReleased struct {
	RoomID    room.ID
	Range     daterange.DateRange
	Reference string
	At        time.Time
}

func (e RangeReleased) EventName() string     { return "availability.range_released" }
func (e RangeReleased) AggregateID() string   { return string(e.RoomID) }
func (e RangeReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	RoomID    room.ID
	Range     daterange.DateRange
	Reference string
	At        time.Time
}

func (e OverbookingPrevented) EventName() string     { return "availability.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return string(e.RoomID) }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }
