package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/outbox"
	"innkeeper/internal/app/uow"
	domainavailability "innkeeper/internal/domain/availability"
	domainreservation "innkeeper/internal/domain/reservation"
	"innkeeper/internal/domain/shared/events"
)

const transitionReservationKey = "reservation.transition"

var ErrNotReservationHolder = errors.New("booking: reservation not owned by caller")

type TransitionReservationCommand struct {
	ReservationID string
	Target        string
	ActorID       string
	ActorIsAdmin  bool
}

func (c TransitionReservationCommand) Key() string { return transitionReservationKey }

type TransitionReservationResult struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

// TransitionReservationHandler drives the lifecycle state machine. A move
// into confirmed re-runs admission against everyone but the reservation
// itself; a move into a terminal status releases the calendar block so the
// range frees up immediately. Non-admin callers may only cancel their own
// reservations.
type TransitionReservationHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *TransitionReservationHandler) Handle(ctx context.Context, cmd TransitionReservationCommand) (*TransitionReservationResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	target, err := domainreservation.ParseStatus(cmd.Target)
	if err != nil {
		return nil, err
	}

	res, err := unit.Reservations().ByID(ctx, domainreservation.ID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if !cmd.ActorIsAdmin {
		if res.HolderID != cmd.ActorID {
			return nil, ErrNotReservationHolder
		}
		if target != domainreservation.StatusCancelled {
			return nil, domainreservation.ErrInvalidTransition
		}
	}

	now := h.now()
	calendar, err := unit.Availability().Calendar(ctx, res.RoomID)
	if err != nil {
		return nil, err
	}
	calendarDirty := false

	switch target {
	case domainreservation.StatusConfirmed:
		if !calendar.CanReserveExcluding(res.Range, string(res.ID)) {
			calendar.Record(domainavailability.OverbookingPrevented{
				RoomID:    calendar.RoomID,
				Range:     res.Range,
				Reference: string(res.ID),
				At:        now,
			})
			return nil, domainavailability.ErrOverlappingRange
		}
		if err := res.Confirm(now); err != nil {
			return nil, err
		}
	case domainreservation.StatusCancelled:
		if err := res.Cancel(now); err != nil {
			return nil, err
		}
		if err := h.release(calendar, res, now); err != nil {
			return nil, err
		}
		calendarDirty = true
	case domainreservation.StatusCompleted:
		if err := res.Complete(now); err != nil {
			return nil, err
		}
		if err := h.release(calendar, res, now); err != nil {
			return nil, err
		}
		calendarDirty = true
	default:
		return nil, domainreservation.ErrInvalidTransition
	}

	if calendarDirty {
		if err := unit.Availability().Save(ctx, calendar); err != nil {
			return nil, err
		}
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
		return nil, err
	}

	pending := append(append([]events.DomainEvent(nil), res.PendingEvents()...), calendar.PendingEvents()...)
	res.ClearEvents()
	calendar.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("reservation transitioned", "reservation_id", res.ID, "room_id", res.RoomID, "status", res.Status)
	}

	return &TransitionReservationResult{ReservationID: string(res.ID), Status: string(res.Status)}, nil
}

// release tolerates a missing block: the calendar may have been rebuilt
// and the block dropped, which must not wedge the transition.
func (h *TransitionReservationHandler) release(calendar *domainavailability.Calendar, res *domainreservation.Reservation, now time.Time) error {
	err := calendar.Release(string(res.ID), now)
	if err != nil && !errors.Is(err, domainavailability.ErrBlockNotFound) {
		return err
	}
	return nil
}

func (h *TransitionReservationHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *TransitionReservationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[TransitionReservationCommand, *TransitionReservationResult] = (*TransitionReservationHandler)(nil)
