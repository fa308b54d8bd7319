package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"innkeeper/internal/app/uow"
	domainavailability "innkeeper/internal/domain/availability"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/infra/pricing"
	"innkeeper/internal/infra/storage/memory"
)

type bookingEnv struct {
	factory      memory.Factory
	rooms        *memory.RoomRepository
	reservations *memory.ReservationRepository
	calendars    *memory.CalendarRepository
	outbox       *memory.Outbox
}

func newBookingEnv(t *testing.T) bookingEnv {
	t.Helper()
	env := bookingEnv{
		rooms:        memory.NewRoomRepository(),
		reservations: memory.NewReservationRepository(),
		calendars:    memory.NewCalendarRepository(),
		outbox:       memory.NewOutbox(),
	}
	env.factory = memory.Factory{
		RoomRepo:        env.rooms,
		ReservationRepo: env.reservations,
		CalendarRepo:    env.calendars,
		ContactRepo:     memory.NewContactRepository(),
	}
	return env
}

func (env bookingEnv) seedRoom(t *testing.T, id string, capacity int, available bool) {
	t.Helper()
	rm, err := domainroom.New(domainroom.CreateParams{
		ID:               domainroom.ID(id),
		Name:             "Test Room " + id,
		Type:             domainroom.TypeStandard,
		Capacity:         capacity,
		NightlyRateCents: 10000,
		Available:        available,
	})
	if err != nil {
		t.Fatalf("building room: %v", err)
	}
	if err := env.rooms.Save(context.Background(), rm); err != nil {
		t.Fatalf("saving room: %v", err)
	}
}

func (env bookingEnv) createHandler() *CreateReservationHandler {
	return &CreateReservationHandler{
		UoWFactory: env.factory,
		Pricing:    pricing.NightlyPricer{Currency: "USD"},
		Outbox:     env.outbox,
		Now:        func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func createCmd(id string, inDay, outDay, guests int) CreateReservationCommand {
	return CreateReservationCommand{
		CommandID: id,
		RoomID:    "room-1",
		HolderID:  "guest-1",
		CheckIn:   time.Date(2026, 3, inDay, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 3, outDay, 0, 0, 0, 0, time.UTC),
		Guests:    guests,
	}
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free range and auto-confirms", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)

		result, err := env.createHandler().Handle(ctx, createCmd("res-1", 10, 13, 2))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Status != string(domainreservation.StatusConfirmed) {
			t.Fatalf("expected confirmed, got %s", result.Status)
		}
		if result.Total.Amount != 30000 || result.Total.Currency != "USD" {
			t.Fatalf("unexpected total %+v", result.Total)
		}

		stored, err := env.reservations.ByID(ctx, "res-1")
		if err != nil {
			t.Fatalf("loading reservation: %v", err)
		}
		if stored.Status != domainreservation.StatusConfirmed {
			t.Fatalf("stored status %s", stored.Status)
		}
		cal, err := env.calendars.Calendar(ctx, "room-1")
		if err != nil {
			t.Fatalf("loading calendar: %v", err)
		}
		if len(cal.Blocks) != 1 {
			t.Fatalf("expected 1 block, got %d", len(cal.Blocks))
		}
		if len(env.outbox.Staged()) == 0 {
			t.Fatalf("expected staged outbox events")
		}
	})

	t.Run("leaves reservation pending when confirmation required", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		handler := env.createHandler()
		handler.RequireConfirmation = true

		result, err := handler.Handle(ctx, createCmd("res-1", 10, 13, 2))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Status != string(domainreservation.StatusPending) {
			t.Fatalf("expected pending, got %s", result.Status)
		}
	})

	t.Run("rejects overlapping range", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		handler := env.createHandler()

		if _, err := handler.Handle(ctx, createCmd("res-1", 10, 13, 2)); err != nil {
			t.Fatalf("first booking: %v", err)
		}
		_, err := handler.Handle(ctx, createCmd("res-2", 12, 14, 2))
		if !errors.Is(err, domainavailability.ErrOverlappingRange) {
			t.Fatalf("expected ErrOverlappingRange, got %v", err)
		}
		if _, err := env.reservations.ByID(ctx, "res-2"); !errors.Is(err, domainreservation.ErrNotFound) {
			t.Fatalf("rejected booking must not be persisted, got %v", err)
		}
	})

	t.Run("admits back to back stays", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)
		handler := env.createHandler()

		if _, err := handler.Handle(ctx, createCmd("res-1", 10, 13, 2)); err != nil {
			t.Fatalf("first booking: %v", err)
		}
		if _, err := handler.Handle(ctx, createCmd("res-2", 13, 16, 2)); err != nil {
			t.Fatalf("checkout day must be bookable: %v", err)
		}
	})

	t.Run("rejects invalid range", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)

		_, err := env.createHandler().Handle(ctx, createCmd("res-1", 13, 13, 2))
		if !errors.Is(err, domainrange.ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("rejects unknown room", func(t *testing.T) {
		env := newBookingEnv(t)

		_, err := env.createHandler().Handle(ctx, createCmd("res-1", 10, 13, 2))
		if !errors.Is(err, domainroom.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects unavailable room", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, false)

		_, err := env.createHandler().Handle(ctx, createCmd("res-1", 10, 13, 2))
		if !errors.Is(err, ErrRoomUnavailable) {
			t.Fatalf("expected ErrRoomUnavailable, got %v", err)
		}
	})

	t.Run("rejects guests over capacity", func(t *testing.T) {
		env := newBookingEnv(t)
		env.seedRoom(t, "room-1", 2, true)

		_, err := env.createHandler().Handle(ctx, createCmd("res-1", 10, 13, 5))
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
	})
}

func TestCreateReservationConcurrent(t *testing.T) {
	env := newBookingEnv(t)
	env.seedRoom(t, "room-1", 2, true)
	handler := env.createHandler()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := createCmd("res-"+string(rune('a'+i)), 10, 13, 2)
			_, err := handler.Handle(context.Background(), cmd)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainavailability.ErrOverlappingRange),
			errors.Is(err, memory.ErrConcurrentUpdate):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one admission, got %d", successes)
	}

	cal, err := env.calendars.Calendar(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("loading calendar: %v", err)
	}
	if len(cal.Blocks) != 1 {
		t.Fatalf("expected exactly one block, got %d", len(cal.Blocks))
	}
}

func TestCreateReservationUsesAmbientUnit(t *testing.T) {
	env := newBookingEnv(t)
	env.seedRoom(t, "room-1", 2, true)
	handler := env.createHandler()

	unit, err := env.factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	ctx := uow.ContextWithUnitOfWork(context.Background(), unit)

	if _, err := handler.Handle(ctx, createCmd("res-1", 10, 13, 2)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := unit.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
