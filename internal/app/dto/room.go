package dto

import (
	"time"

	domainroom "innkeeper/internal/domain/room"
)

type RoomView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Type             string    `json:"type"`
	Capacity         int       `json:"capacity"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	SizeSqft         int       `json:"size_sqft,omitempty"`
	Amenities        []string  `json:"amenities"`
	Photos           []string  `json:"photos"`
	Available        bool      `json:"available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RoomCollection struct {
	Items []RoomView `json:"items"`
}

func MapRoom(rm *domainroom.Room) RoomView {
	amenities := rm.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	photos := rm.Photos
	if photos == nil {
		photos = []string{}
	}
	return RoomView{
		ID:               string(rm.ID),
		Name:             rm.Name,
		Description:      rm.Description,
		Type:             string(rm.Type),
		Capacity:         rm.Capacity,
		NightlyRateCents: rm.NightlyRateCents,
		SizeSqft:         rm.SizeSqft,
		Amenities:        amenities,
		Photos:           photos,
		Available:        rm.Available,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func MapRooms(rooms []*domainroom.Room) RoomCollection {
	items := make([]RoomView, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, MapRoom(rm))
	}
	return RoomCollection{Items: items}
}
