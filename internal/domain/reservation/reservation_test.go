package reservation

import (
	"errors"
	"testing"
	"time"

	"innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/money"
)

func testReservation(t *testing.T) *Reservation {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("building range: %v", err)
	}
	r, err := New(CreateParams{
		ID:        "res-1",
		RoomID:    "room-1",
		HolderID:  "guest-1",
		Range:     dr,
		Guests:    2,
		Total:     money.Must(38700, "USD"),
		CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("creating reservation: %v", err)
	}
	return r
}

func TestNewValidation(t *testing.T) {
	dr, _ := daterange.New(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
	)

	t.Run("starts pending and records a request event", func(t *testing.T) {
		r := testReservation(t)
		if r.Status != StatusPending {
			t.Fatalf("expected pending, got %s", r.Status)
		}
		evs := r.PendingEvents()
		if len(evs) != 1 {
			t.Fatalf("expected 1 event, got %d", len(evs))
		}
		if evs[0].EventName() != "reservation.requested" {
			t.Fatalf("unexpected event %s", evs[0].EventName())
		}
	})

	t.Run("rejects zero guests", func(t *testing.T) {
		_, err := New(CreateParams{ID: "r", RoomID: "room", HolderID: "g", Range: dr, Guests: 0})
		if !errors.Is(err, ErrInvalidGuests) {
			t.Fatalf("expected ErrInvalidGuests, got %v", err)
		}
	})

	t.Run("rejects missing holder", func(t *testing.T) {
		_, err := New(CreateParams{ID: "r", RoomID: "room", HolderID: "  ", Range: dr, Guests: 1})
		if !errors.Is(err, ErrHolderRequired) {
			t.Fatalf("expected ErrHolderRequired, got %v", err)
		}
	})

	t.Run("rejects negative total", func(t *testing.T) {
		_, err := New(CreateParams{ID: "r", RoomID: "room", HolderID: "g", Range: dr, Guests: 1, Total: money.Money{Amount: -1, Currency: "USD"}})
		if !errors.Is(err, ErrNegativeTotal) {
			t.Fatalf("expected ErrNegativeTotal, got %v", err)
		}
	})
}

func TestTransitions(t *testing.T) {
	now := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	t.Run("pending to confirmed", func(t *testing.T) {
		r := testReservation(t)
		if err := r.Confirm(now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Status != StatusConfirmed {
			t.Fatalf("expected confirmed, got %s", r.Status)
		}
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		r := testReservation(t)
		if err := r.Cancel(now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Status != StatusCancelled {
			t.Fatalf("expected cancelled, got %s", r.Status)
		}
	})

	t.Run("confirmed to completed", func(t *testing.T) {
		r := testReservation(t)
		if err := r.Confirm(now); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := r.Complete(now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if r.Status != StatusCompleted {
			t.Fatalf("expected completed, got %s", r.Status)
		}
	})

	t.Run("pending cannot complete", func(t *testing.T) {
		r := testReservation(t)
		if err := r.Complete(now); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("terminal statuses are frozen", func(t *testing.T) {
		cancelled := testReservation(t)
		if err := cancelled.Cancel(now); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		for name, transition := range map[string]func(time.Time) error{
			"confirm":  cancelled.Confirm,
			"cancel":   cancelled.Cancel,
			"complete": cancelled.Complete,
		} {
			if err := transition(now); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("%s after cancel: expected ErrInvalidTransition, got %v", name, err)
			}
		}

		completed := testReservation(t)
		if err := completed.Confirm(now); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := completed.Complete(now); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if err := completed.Cancel(now); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("cancel after complete: expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Confirmed "); err != nil || s != StatusConfirmed {
		t.Fatalf("ParseStatus = %v, %v", s, err)
	}
	if _, err := ParseStatus("unknown"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusPending.Active() || !StatusConfirmed.Active() {
		t.Fatalf("pending and confirmed must be active")
	}
	if StatusCancelled.Active() || StatusCompleted.Active() {
		t.Fatalf("terminal statuses must not be active")
	}
	if !StatusCancelled.Terminal() || !StatusCompleted.Terminal() {
		t.Fatalf("cancelled and completed must be terminal")
	}
	if StatusPending.Terminal() {
		t.Fatalf("pending must not be terminal")
	}
}
