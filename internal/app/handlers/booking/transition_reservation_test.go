package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"innkeeper/internal/app/uow"
	domainavailability "innkeeper/internal/domain/availability"
	domainreservation "innkeeper/internal/domain/reservation"
	domainrange "innkeeper/internal/domain/shared/daterange"
)

func mustTestRange(t *testing.T, inDay, outDay int) domainrange.DateRange {
	t.Helper()
	dr, err := domainrange.New(
		time.Date(2026, 3, inDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, outDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("building range: %v", err)
	}
	return dr
}

func (env bookingEnv) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := env.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func (env bookingEnv) transitionHandler() *TransitionReservationHandler {
	return &TransitionReservationHandler{
		Outbox: env.outbox,
		Now:    func() time.Time { return time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC) },
	}
}

// seedReservation books through the create handler so reservation and
// calendar stay consistent.
func (env bookingEnv) seedReservation(t *testing.T, id string, inDay, outDay int, pending bool) {
	t.Helper()
	handler := env.createHandler()
	handler.RequireConfirmation = pending
	if _, err := handler.Handle(context.Background(), createCmd(id, inDay, outDay, 2)); err != nil {
		t.Fatalf("seeding reservation %s: %v", id, err)
	}
}

func TestTransitionReservation(t *testing.T) {
	t.Run("admin confirms a pending reservation", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, true)

		result, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "confirmed",
			ActorID:       "admin-1",
			ActorIsAdmin:  true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Status != string(domainreservation.StatusConfirmed) {
			t.Fatalf("expected confirmed, got %s", result.Status)
		}
	})

	t.Run("cancel releases the calendar block", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, false)

		if _, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "cancelled",
			ActorID:       "guest-1",
		}); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		cal, err := env.calendars.Calendar(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("loading calendar: %v", err)
		}
		if len(cal.Blocks) != 0 {
			t.Fatalf("expected released calendar, got %d blocks", len(cal.Blocks))
		}

		// The freed range is immediately bookable again.
		if _, err := env.createHandler().Handle(context.Background(), createCmd("res-2", 10, 13, 2)); err != nil {
			t.Fatalf("rebooking released range: %v", err)
		}
	})

	t.Run("complete releases the calendar block", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, false)

		result, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "completed",
			ActorID:       "admin-1",
			ActorIsAdmin:  true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Status != string(domainreservation.StatusCompleted) {
			t.Fatalf("expected completed, got %s", result.Status)
		}
		cal, _ := env.calendars.Calendar(context.Background(), "room-1")
		if len(cal.Blocks) != 0 {
			t.Fatalf("expected released calendar, got %d blocks", len(cal.Blocks))
		}
	})

	t.Run("holder may only cancel", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, true)

		_, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "confirmed",
			ActorID:       "guest-1",
		})
		if !errors.Is(err, domainreservation.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("stranger may not touch the reservation", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, false)

		_, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "cancelled",
			ActorID:       "guest-2",
		})
		if !errors.Is(err, ErrNotReservationHolder) {
			t.Fatalf("expected ErrNotReservationHolder, got %v", err)
		}
	})

	t.Run("terminal reservation stays frozen", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, false)

		if _, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1", Target: "cancelled", ActorID: "guest-1",
		}); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1", Target: "confirmed", ActorID: "admin-1", ActorIsAdmin: true,
		})
		if !errors.Is(err, domainreservation.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("confirm fails when the range was taken meanwhile", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		env.seedReservation(t, "res-1", 10, 13, true)

		// Simulate a calendar rebuild that dropped res-1's block and let a
		// competing reservation take the nights.
		cal, err := env.calendars.Calendar(context.Background(), "room-1")
		if err != nil {
			t.Fatalf("loading calendar: %v", err)
		}
		if err := cal.Release("res-1", time.Now()); err != nil {
			t.Fatalf("release: %v", err)
		}
		if err := cal.Reserve(mustTestRange(t, 11, 14), "res-other", time.Now()); err != nil {
			t.Fatalf("competing reserve: %v", err)
		}
		cal.ClearEvents()
		if err := env.calendars.Save(context.Background(), cal); err != nil {
			t.Fatalf("saving calendar: %v", err)
		}

		_, err = env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "res-1",
			Target:        "confirmed",
			ActorID:       "admin-1",
			ActorIsAdmin:  true,
		})
		if !errors.Is(err, domainavailability.ErrOverlappingRange) {
			t.Fatalf("expected ErrOverlappingRange, got %v", err)
		}

		stored, err := env.reservations.ByID(context.Background(), "res-1")
		if err != nil {
			t.Fatalf("loading reservation: %v", err)
		}
		if stored.Status != domainreservation.StatusPending {
			t.Fatalf("reservation must stay pending, got %s", stored.Status)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)

		_, err := env.transitionHandler().Handle(env.unitContext(t), TransitionReservationCommand{
			ReservationID: "missing",
			Target:        "cancelled",
			ActorID:       "admin-1",
			ActorIsAdmin:  true,
		})
		if !errors.Is(err, domainreservation.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
