package booking

import (
	"context"
	"errors"
	"time"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	"innkeeper/internal/app/middleware"
	"innkeeper/internal/app/outbox"
	"innkeeper/internal/app/policies"
	"innkeeper/internal/app/uow"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
)

const createReservationKey = "reservation.create"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrRoomUnavailable    = errors.New("booking: room not accepting reservations")
	ErrCapacityExceeded   = errors.New("booking: guests exceed room capacity")
)

type CreateReservationCommand struct {
	CommandID       string
	RoomID          string
	HolderID        string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Note            string
	IdempotencyKeyV string
}

func (c CreateReservationCommand) Key() string { return createReservationKey }

func (c CreateReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateReservationCommand) ResultPrototype() any { return &CreateReservationResult{} }

type CreateReservationResult struct {
	ReservationID string       `json:"reservation_id"`
	Status        string       `json:"status"`
	Total         dto.MoneyDTO `json:"total"`
}

// CreateReservationHandler admits a stay against the room calendar and
// writes reservation plus calendar inside one unit of work. The calendar
// save carries the loaded version, so two racing admissions for the same
// room cannot both commit.
type CreateReservationHandler struct {
	UoWFactory          uow.UoWFactory
	Pricing             policies.PricingPort
	Outbox              outbox.Outbox
	Encoder             outbox.EventEncoder
	RequireConfirmation bool
	Now                 func() time.Time
}

func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*CreateReservationResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := h.now()

	rm, err := unit.Rooms().ByID(ctx, domainroom.ID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	if !rm.Available {
		return nil, ErrRoomUnavailable
	}
	if cmd.Guests > rm.Capacity {
		return nil, ErrCapacityExceeded
	}

	quote, err := h.Pricing.Quote(ctx, rm, dr, cmd.Guests)
	if err != nil {
		return nil, err
	}

	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:        domainreservation.ID(cmd.CommandID),
		RoomID:    rm.ID,
		HolderID:  cmd.HolderID,
		Range:     dr,
		Guests:    cmd.Guests,
		Total:     quote.Total,
		Note:      cmd.Note,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	calendar, err := unit.Availability().Calendar(ctx, rm.ID)
	if err != nil {
		return nil, err
	}
	if err := calendar.Reserve(dr, string(res.ID), now); err != nil {
		return nil, err
	}

	if !h.RequireConfirmation {
		if err := res.Confirm(now); err != nil {
			return nil, err
		}
	}

	if err := unit.Availability().Save(ctx, calendar); err != nil {
		return nil, err
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
		return nil, err
	}

	pending := append(res.PendingEvents(), calendar.PendingEvents()...)
	res.ClearEvents()
	calendar.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateReservationResult{
		ReservationID: string(res.ID),
		Status:        string(res.Status),
		Total:         dto.MapMoney(res.Total),
	}, nil
}

func (h *CreateReservationHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *CreateReservationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateReservationCommand, *CreateReservationResult] = (*CreateReservationHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateReservationCommand)(nil)
