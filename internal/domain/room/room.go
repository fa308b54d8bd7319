package room

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired      = errors.New("room: id is required")
	ErrNameRequired    = errors.New("room: name is required")
	ErrInvalidCapacity = errors.New("room: capacity must be at least 1")
	ErrInvalidType     = errors.New("room: unknown room type")
	ErrNightlyRate     = errors.New("room: nightly rate must be non-negative")
	ErrNotFound        = errors.New("room: not found")
)

type ID string

type Type string

const (
	TypeStandard     Type = "standard"
	TypeDeluxe       Type = "deluxe"
	TypeSuite        Type = "suite"
	TypePresidential Type = "presidential"
)

// Room is a bookable inventory unit. The Available flag is an
// administrative override and is independent of date-based occupancy.
type Room struct {
	ID               ID
	Name             string
	Description      string
	Type             Type
	Capacity         int
	NightlyRateCents int64
	SizeSqft         int
	Amenities        []string
	Photos           []string
	Available        bool
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Room, error)
	Save(ctx context.Context, room *Room) error
	List(ctx context.Context) ([]*Room, error)
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID               ID
	Name             string
	Description      string
	Type             Type
	Capacity         int
	NightlyRateCents int64
	SizeSqft         int
	Amenities        []string
	Photos           []string
	Available        bool
	Now              time.Time
}

func New(params CreateParams) (*Room, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if params.NightlyRateCents < 0 {
		return nil, ErrNightlyRate
	}
	roomType, err := normalizeType(params.Type)
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Room{
		ID:               params.ID,
		Name:             name,
		Description:      strings.TrimSpace(params.Description),
		Type:             roomType,
		Capacity:         params.Capacity,
		NightlyRateCents: params.NightlyRateCents,
		SizeSqft:         params.SizeSqft,
		Amenities:        append([]string(nil), params.Amenities...),
		Photos:           append([]string(nil), params.Photos...),
		Available:        params.Available,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

type UpdateParams struct {
	Name             *string
	Description      *string
	Type             *Type
	Capacity         *int
	NightlyRateCents *int64
	SizeSqft         *int
	Amenities        []string
	Available        *bool
}

// Update applies the provided fields, leaving nil fields untouched.
func (r *Room) Update(params UpdateParams, now time.Time) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return ErrNameRequired
		}
		r.Name = name
	}
	if params.Description != nil {
		r.Description = strings.TrimSpace(*params.Description)
	}
	if params.Type != nil {
		roomType, err := normalizeType(*params.Type)
		if err != nil {
			return err
		}
		r.Type = roomType
	}
	if params.Capacity != nil {
		if *params.Capacity < 1 {
			return ErrInvalidCapacity
		}
		r.Capacity = *params.Capacity
	}
	if params.NightlyRateCents != nil {
		if *params.NightlyRateCents < 0 {
			return ErrNightlyRate
		}
		r.NightlyRateCents = *params.NightlyRateCents
	}
	if params.SizeSqft != nil {
		r.SizeSqft = *params.SizeSqft
	}
	if params.Amenities != nil {
		r.Amenities = append([]string(nil), params.Amenities...)
	}
	if params.Available != nil {
		r.Available = *params.Available
	}
	r.touch(now)
	return nil
}

func (r *Room) SetAvailable(available bool, now time.Time) {
	r.Available = available
	r.touch(now)
}

func (r *Room) AddPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	r.Photos = append(r.Photos, url)
	r.touch(now)
}

func (r *Room) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

func normalizeType(t Type) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(string(t)))) {
	case TypeStandard:
		return TypeStandard, nil
	case TypeDeluxe:
		return TypeDeluxe, nil
	case TypeSuite:
		return TypeSuite, nil
	case TypePresidential:
		return TypePresidential, nil
	case "":
		return TypeStandard, nil
	default:
		return "", ErrInvalidType
	}
}
