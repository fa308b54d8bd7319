package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/money"
)

func testRange(t *testing.T, inDay, outDay int) domainrange.DateRange {
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

func TestCalendarRepositorySave(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown room yields an empty calendar", func(t *testing.T) {
		repo := NewCalendarRepository()
		cal, err := repo.Calendar(ctx, "room-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cal.Blocks) != 0 || cal.Version != 0 {
			t.Fatalf("expected fresh calendar, got %+v", cal)
		}
	})

	t.Run("save bumps the version", func(t *testing.T) {
		repo := NewCalendarRepository()
		cal, _ := repo.Calendar(ctx, "room-1")
		if err := cal.Reserve(testRange(t, 10, 13), "res-1", time.Now()); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if err := repo.Save(ctx, cal); err != nil {
			t.Fatalf("save: %v", err)
		}
		if cal.Version != 1 {
			t.Fatalf("expected version 1, got %d", cal.Version)
		}
	})

	t.Run("stale version loses the race", func(t *testing.T) {
		repo := NewCalendarRepository()

		first, _ := repo.Calendar(ctx, "room-1")
		second, _ := repo.Calendar(ctx, "room-1")

		if err := first.Reserve(testRange(t, 10, 13), "res-1", time.Now()); err != nil {
			t.Fatalf("reserve first: %v", err)
		}
		if err := repo.Save(ctx, first); err != nil {
			t.Fatalf("save first: %v", err)
		}

		if err := second.Reserve(testRange(t, 10, 13), "res-2", time.Now()); err != nil {
			t.Fatalf("reserve second against stale copy: %v", err)
		}
		if err := repo.Save(ctx, second); !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}

		stored, _ := repo.Calendar(ctx, "room-1")
		if len(stored.Blocks) != 1 || stored.Blocks[0].Reference != "res-1" {
			t.Fatalf("stored calendar corrupted: %+v", stored.Blocks)
		}
	})

	t.Run("loaded copy is isolated from the store", func(t *testing.T) {
		repo := NewCalendarRepository()
		cal, _ := repo.Calendar(ctx, "room-1")
		if err := cal.Reserve(testRange(t, 10, 13), "res-1", time.Now()); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if err := repo.Save(ctx, cal); err != nil {
			t.Fatalf("save: %v", err)
		}

		loaded, _ := repo.Calendar(ctx, "room-1")
		loaded.Blocks[0].Reference = "tampered"

		fresh, _ := repo.Calendar(ctx, "room-1")
		if fresh.Blocks[0].Reference != "res-1" {
			t.Fatalf("store shared memory with a loaded copy")
		}
	})
}

func TestReservationRepositoryListing(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, seed := range []struct {
		id     string
		holder string
	}{
		{"res-1", "guest-1"},
		{"res-2", "guest-2"},
		{"res-3", "guest-1"},
	} {
		res, err := domainreservation.New(domainreservation.CreateParams{
			ID:        domainreservation.ID(seed.id),
			RoomID:    "room-1",
			HolderID:  seed.holder,
			Range:     testRange(t, 10+i*3, 12+i*3),
			Guests:    2,
			Total:     money.Must(10000, "USD"),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("building reservation: %v", err)
		}
		if err := repo.Save(ctx, res); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	byHolder, err := repo.ListByHolder(ctx, "guest-1")
	if err != nil {
		t.Fatalf("ListByHolder: %v", err)
	}
	if len(byHolder) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(byHolder))
	}
	if byHolder[0].ID != "res-3" {
		t.Fatalf("expected newest first, got %s", byHolder[0].ID)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reservations, got %d", len(all))
	}
	if all[0].ID != "res-3" {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}
}

func TestRoomRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()

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
	if err := repo.Save(ctx, rm); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "room-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "room-1"); !errors.Is(err, domainroom.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
