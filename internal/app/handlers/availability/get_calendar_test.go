package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/infra/storage/memory"
)

type availabilityEnv struct {
	factory   memory.Factory
	rooms     *memory.RoomRepository
	calendars *memory.CalendarRepository
}

func newAvailabilityEnv(t *testing.T) availabilityEnv {
	t.Helper()
	env := availabilityEnv{
		rooms:     memory.NewRoomRepository(),
		calendars: memory.NewCalendarRepository(),
	}
	env.factory = memory.Factory{
		RoomRepo:        env.rooms,
		ReservationRepo: memory.NewReservationRepository(),
		CalendarRepo:    env.calendars,
		ContactRepo:     memory.NewContactRepository(),
	}

	rm, err := domainroom.New(domainroom.CreateParams{
		ID:               "room-1",
		Name:             "Test Room",
		Type:             domainroom.TypeStandard,
		Capacity:         2,
		NightlyRateCents: 10000,
		Available:        true,
	})
	if err != nil {
		t.Fatalf("building room: %v", err)
	}
	if err := env.rooms.Save(context.Background(), rm); err != nil {
		t.Fatalf("saving room: %v", err)
	}
	return env
}

func (env availabilityEnv) block(t *testing.T, ref string, inDay, outDay int) {
	t.Helper()
	ctx := context.Background()
	cal, err := env.calendars.Calendar(ctx, "room-1")
	if err != nil {
		t.Fatalf("loading calendar: %v", err)
	}
	dr, err := domainrange.New(
		time.Date(2026, 3, inDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, outDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("building range: %v", err)
	}
	if err := cal.Reserve(dr, ref, time.Now()); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	cal.ClearEvents()
	if err := env.calendars.Save(ctx, cal); err != nil {
		t.Fatalf("saving calendar: %v", err)
	}
}

func TestGetRoomCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("returns occupied ranges ordered by check-in", func(t *testing.T) {
		env := newAvailabilityEnv(t)
		env.block(t, "res-2", 20, 23)
		env.block(t, "res-1", 10, 13)

		handler := &GetRoomCalendarHandler{UoWFactory: env.factory}
		result, err := handler.Handle(ctx, GetRoomCalendarQuery{RoomID: "room-1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.RoomID != "room-1" {
			t.Fatalf("unexpected room id %s", result.RoomID)
		}
		if len(result.Occupied) != 2 {
			t.Fatalf("expected 2 ranges, got %d", len(result.Occupied))
		}
		if result.Occupied[0].CheckIn != "2026-03-10" || result.Occupied[1].CheckIn != "2026-03-20" {
			t.Fatalf("ranges out of order: %+v", result.Occupied)
		}
	})

	t.Run("empty calendar for a room without bookings", func(t *testing.T) {
		env := newAvailabilityEnv(t)

		handler := &GetRoomCalendarHandler{UoWFactory: env.factory}
		result, err := handler.Handle(ctx, GetRoomCalendarQuery{RoomID: "room-1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Occupied) != 0 {
			t.Fatalf("expected empty calendar, got %+v", result.Occupied)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		env := newAvailabilityEnv(t)

		handler := &GetRoomCalendarHandler{UoWFactory: env.factory}
		if _, err := handler.Handle(ctx, GetRoomCalendarQuery{RoomID: "missing"}); !errors.Is(err, domainroom.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	t.Run("free range", func(t *testing.T) {
		env := newAvailabilityEnv(t)
		env.block(t, "res-1", 10, 13)

		handler := &CheckAvailabilityHandler{UoWFactory: env.factory}
		result, err := handler.Handle(ctx, CheckAvailabilityQuery{RoomID: "room-1", CheckIn: day(13), CheckOut: day(16)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Free {
			t.Fatalf("back to back range should be free")
		}
	})

	t.Run("occupied range", func(t *testing.T) {
		env := newAvailabilityEnv(t)
		env.block(t, "res-1", 10, 13)

		handler := &CheckAvailabilityHandler{UoWFactory: env.factory}
		result, err := handler.Handle(ctx, CheckAvailabilityQuery{RoomID: "room-1", CheckIn: day(12), CheckOut: day(14)})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Free {
			t.Fatalf("overlapping range must not be free")
		}
	})

	t.Run("invalid range answers not free", func(t *testing.T) {
		env := newAvailabilityEnv(t)

		handler := &CheckAvailabilityHandler{UoWFactory: env.factory}
		result, err := handler.Handle(ctx, CheckAvailabilityQuery{RoomID: "room-1", CheckIn: day(13), CheckOut: day(13)})
		if err != nil {
			t.Fatalf("an invalid range is an answer, not an error: %v", err)
		}
		if result.Free {
			t.Fatalf("invalid range must not be free")
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		env := newAvailabilityEnv(t)

		handler := &CheckAvailabilityHandler{UoWFactory: env.factory}
		if _, err := handler.Handle(ctx, CheckAvailabilityQuery{RoomID: "missing", CheckIn: day(10), CheckOut: day(12)}); !errors.Is(err, domainroom.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
