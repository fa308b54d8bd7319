package availability

import (
	"errors"
	"testing"
	"time"

	"innkeeper/internal/domain/shared/daterange"
)

func mustRange(t *testing.T, inDay, outDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, 3, inDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, outDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("building range: %v", err)
	}
	return dr
}

func TestCalendarReserve(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("admits a free range", func(t *testing.T) {
		cal := NewCalendar("room-1")
		if err := cal.Reserve(mustRange(t, 10, 13), "res-1", now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cal.Blocks) != 1 {
			t.Fatalf("expected 1 block, got %d", len(cal.Blocks))
		}
		evs := cal.PendingEvents()
		if len(evs) != 1 {
			t.Fatalf("expected 1 event, got %d", len(evs))
		}
		if _, ok := evs[0].(RangeBlocked); !ok {
			t.Fatalf("expected RangeBlocked, got %T", evs[0])
		}
	})

	t.Run("rejects an overlapping range without mutating", func(t *testing.T) {
		cal := NewCalendar("room-1")
		if err := cal.Reserve(mustRange(t, 10, 13), "res-1", now); err != nil {
			t.Fatalf("seed: %v", err)
		}
		cal.ClearEvents()

		err := cal.Reserve(mustRange(t, 12, 14), "res-2", now)
		if !errors.Is(err, ErrOverlappingRange) {
			t.Fatalf("expected ErrOverlappingRange, got %v", err)
		}
		if len(cal.Blocks) != 1 {
			t.Fatalf("calendar mutated on rejection: %d blocks", len(cal.Blocks))
		}
		evs := cal.PendingEvents()
		if len(evs) != 1 {
			t.Fatalf("expected 1 event, got %d", len(evs))
		}
		if _, ok := evs[0].(OverbookingPrevented); !ok {
			t.Fatalf("expected OverbookingPrevented, got %T", evs[0])
		}
	})

	t.Run("admits back to back ranges", func(t *testing.T) {
		cal := NewCalendar("room-1")
		if err := cal.Reserve(mustRange(t, 10, 13), "res-1", now); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := cal.Reserve(mustRange(t, 13, 16), "res-2", now); err != nil {
			t.Fatalf("checkout day must be bookable: %v", err)
		}
	})
}

func TestCalendarCanReserveExcluding(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	cal := NewCalendar("room-1")
	if err := cal.Reserve(mustRange(t, 10, 13), "res-1", now); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if cal.CanReserve(mustRange(t, 11, 12)) {
		t.Fatalf("overlap should not be reservable")
	}
	if !cal.CanReserveExcluding(mustRange(t, 11, 12), "res-1") {
		t.Fatalf("a reservation must not conflict with its own block")
	}
	if cal.CanReserveExcluding(daterange.DateRange{}, "res-1") {
		t.Fatalf("invalid range is never reservable")
	}
}

func TestCalendarRelease(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	cal := NewCalendar("room-1")
	if err := cal.Reserve(mustRange(t, 10, 13), "res-1", now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cal.ClearEvents()

	if err := cal.Release("res-1", now); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cal.Blocks) != 0 {
		t.Fatalf("block not removed")
	}
	if !cal.CanReserve(mustRange(t, 10, 13)) {
		t.Fatalf("released range should be reservable again")
	}
	evs := cal.PendingEvents()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if _, ok := evs[0].(RangeReleased); !ok {
		t.Fatalf("expected RangeReleased, got %T", evs[0])
	}

	if err := cal.Release("res-1", now); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestCalendarOccupiedRanges(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	cal := NewCalendar("room-1")
	for _, seed := range []struct {
		in, out int
		ref     string
	}{
		{20, 22, "res-3"},
		{10, 13, "res-1"},
		{15, 18, "res-2"},
	} {
		if err := cal.Reserve(mustRange(t, seed.in, seed.out), seed.ref, now); err != nil {
			t.Fatalf("seed %s: %v", seed.ref, err)
		}
	}

	got := cal.OccupiedRanges()
	if len(got) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CheckIn.Before(got[i-1].CheckIn) {
			t.Fatalf("ranges not ordered by check-in: %v", got)
		}
	}
}
