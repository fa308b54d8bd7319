package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		dr, err := New(day(2026, 3, 10), day(2026, 3, 13))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dr.Nights() != 3 {
			t.Fatalf("expected 3 nights, got %d", dr.Nights())
		}
	})

	t.Run("drops time of day and normalizes to UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		in := time.Date(2026, 3, 10, 15, 30, 0, 0, loc)
		out := time.Date(2026, 3, 11, 9, 0, 0, 0, loc)
		dr, err := New(in, out)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !dr.CheckIn.Equal(day(2026, 3, 10)) {
			t.Fatalf("unexpected check-in %v", dr.CheckIn)
		}
		if dr.Nights() != 1 {
			t.Fatalf("expected 1 night, got %d", dr.Nights())
		}
	})

	t.Run("zero nights rejected", func(t *testing.T) {
		if _, err := New(day(2026, 3, 10), day(2026, 3, 10)); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})

	t.Run("reversed range rejected", func(t *testing.T) {
		if _, err := New(day(2026, 3, 13), day(2026, 3, 10)); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})
}

func TestOverlaps(t *testing.T) {
	base, _ := New(day(2026, 3, 10), day(2026, 3, 15))

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"identical", day(2026, 3, 10), day(2026, 3, 15), true},
		{"contained", day(2026, 3, 11), day(2026, 3, 13), true},
		{"overlaps start", day(2026, 3, 8), day(2026, 3, 11), true},
		{"overlaps end", day(2026, 3, 14), day(2026, 3, 18), true},
		{"covers", day(2026, 3, 8), day(2026, 3, 18), true},
		{"back to back before", day(2026, 3, 7), day(2026, 3, 10), false},
		{"back to back after", day(2026, 3, 15), day(2026, 3, 20), false},
		{"disjoint", day(2026, 4, 1), day(2026, 4, 5), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := New(tc.checkIn, tc.checkOut)
			if err != nil {
				t.Fatalf("building range: %v", err)
			}
			if got := base.Overlaps(other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := other.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps is not symmetric: %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr, _ := New(day(2026, 3, 10), day(2026, 3, 12))
	if !dr.ContainsDate(day(2026, 3, 10)) {
		t.Fatalf("check-in day should be contained")
	}
	if !dr.ContainsDate(day(2026, 3, 11)) {
		t.Fatalf("middle night should be contained")
	}
	if dr.ContainsDate(day(2026, 3, 12)) {
		t.Fatalf("check-out day must not be contained")
	}
}
