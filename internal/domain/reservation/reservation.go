package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"innkeeper/internal/domain/room"
	"innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/events"
	"innkeeper/internal/domain/shared/money"
)

var (
	ErrInvalidGuests     = errors.New("reservation: guests count must be positive")
	ErrHolderRequired    = errors.New("reservation: holder id is required")
	ErrNegativeTotal     = errors.New("reservation: total must not be negative")
	ErrInvalidTransition = errors.New("reservation: invalid status transition")
	ErrNotFound          = errors.New("reservation: not found")
)

type ID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Active reports whether the reservation occupies its date range.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", ErrInvalidTransition
	}
}

// Reservation books a room for a holder over a half-open date range.
// It references the room by identifier only and is never deleted;
// terminal statuses preserve the audit trail.
type Reservation struct {
	ID        ID
	RoomID    room.ID
	HolderID  string
	Range     daterange.DateRange
	Guests    int
	Status    Status
	Total     money.Money
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	ListByHolder(ctx context.Context, holderID string) ([]*Reservation, error)
	ListAll(ctx context.Context) ([]*Reservation, error)
}

type CreateParams struct {
	ID        ID
	RoomID    room.ID
	HolderID  string
	Range     daterange.DateRange
	Guests    int
	Total     money.Money
	Note      string
	CreatedAt time.Time
}

// New creates a reservation in pending status. The lifecycle service decides
// whether to confirm it immediately (auto-confirm policy) or leave it pending.
func New(params CreateParams) (*Reservation, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if strings.TrimSpace(params.HolderID) == "" {
		return nil, ErrHolderRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Total.Negative() {
		return nil, ErrNegativeTotal
	}
	now := params.CreatedAt.UTC()
	r := &Reservation{
		ID:        params.ID,
		RoomID:    params.RoomID,
		HolderID:  params.HolderID,
		Range:     params.Range,
		Guests:    params.Guests,
		Status:    StatusPending,
		Total:     params.Total,
		Note:      strings.TrimSpace(params.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(Requested{ReservationID: r.ID, RoomID: r.RoomID, HolderID: r.HolderID, Range: r.Range, Guests: r.Guests, Total: r.Total, At: now})
	return r, nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusConfirmed
	r.touch(now)
	r.Record(Confirmed{ReservationID: r.ID, RoomID: r.RoomID, Range: r.Range, Total: r.Total, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.Status = StatusCancelled
	r.touch(now)
	r.Record(Cancelled{ReservationID: r.ID, RoomID: r.RoomID, Range: r.Range, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.Status = StatusCompleted
	r.touch(now)
	r.Record(Completed{ReservationID: r.ID, RoomID: r.RoomID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}
