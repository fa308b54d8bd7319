package dto

import (
	"time"

	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
)

// ReservationView carries a reservation over the wire. Check-in and
// check-out are calendar dates, not instants.
type ReservationView struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	HolderID  string    `json:"holder_id"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Guests    int       `json:"guests"`
	Status    string    `json:"status"`
	Total     MoneyDTO  `json:"total"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReservationCollection struct {
	Items []ReservationView `json:"items"`
}

// RoomSnapshot is the room slice embedded in joined reservation reads.
type RoomSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// HolderReservationSummary joins a reservation with its room for the
// holder's own bookings listing.
type HolderReservationSummary struct {
	ReservationView
	Room RoomSnapshot `json:"room"`
}

type HolderReservationCollection struct {
	Items []HolderReservationSummary `json:"items"`
}

func MapReservation(r *domainreservation.Reservation) ReservationView {
	return ReservationView{
		ID:        string(r.ID),
		RoomID:    string(r.RoomID),
		HolderID:  r.HolderID,
		CheckIn:   r.Range.CheckIn.Format(time.DateOnly),
		CheckOut:  r.Range.CheckOut.Format(time.DateOnly),
		Guests:    r.Guests,
		Status:    string(r.Status),
		Total:     MapMoney(r.Total),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// MapHolderReservationSummary tolerates a nil room; the reservation keeps
// the room identifier even when the room itself was deleted.
func MapHolderReservationSummary(r *domainreservation.Reservation, rm *domainroom.Room) HolderReservationSummary {
	snapshot := RoomSnapshot{ID: string(r.RoomID)}
	if rm != nil {
		snapshot.Name = rm.Name
		snapshot.Type = string(rm.Type)
		if len(rm.Photos) > 0 {
			snapshot.PhotoURL = rm.Photos[0]
		}
	}
	return HolderReservationSummary{
		ReservationView: MapReservation(r),
		Room:            snapshot,
	}
}
