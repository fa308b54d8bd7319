package dto

import (
	"time"

	"innkeeper/internal/domain/shared/daterange"
)

type OccupiedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type RoomCalendar struct {
	RoomID   string          `json:"room_id"`
	Occupied []OccupiedRange `json:"occupied"`
}

func MapRoomCalendar(roomID string, ranges []daterange.DateRange) RoomCalendar {
	occupied := make([]OccupiedRange, 0, len(ranges))
	for _, dr := range ranges {
		occupied = append(occupied, OccupiedRange{
			CheckIn:  dr.CheckIn.Format(time.DateOnly),
			CheckOut: dr.CheckOut.Format(time.DateOnly),
		})
	}
	return RoomCalendar{RoomID: roomID, Occupied: occupied}
}
