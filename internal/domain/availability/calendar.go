package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"innkeeper/internal/domain/room"
	"innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/events"
)

var (
	ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")
	ErrBlockNotFound    = errors.New("availability: block not found")
)

// Block marks a date range occupied by a single active reservation.
// Reference is the reservation identifier that owns the block.
type Block struct {
	Range     daterange.DateRange
	Reference string
	CreatedAt time.Time
}

// Calendar is the per-room occupancy read model. It owns all occupied
// blocks for one room and carries an optimistic version so that two
// racing admission checks cannot both commit (see the ledger Save
// contract in the storage layer).
type Calendar struct {
	RoomID  room.ID
	Blocks  []Block
	Version int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id room.ID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id room.ID) *Calendar {
	return &Calendar{RoomID: id}
}

// CanReserve reports whether r overlaps no existing block.
// An invalid range is never reservable.
func (c *Calendar) CanReserve(r daterange.DateRange) bool {
	return c.CanReserveExcluding(r, "")
}

// CanReserveExcluding ignores the block owned by the given reference,
// which lets a reservation re-run admission against everyone but itself.
func (c *Calendar) CanReserveExcluding(r daterange.DateRange, excludeRef string) bool {
	if r.Validate() != nil {
		return false
	}
	for _, block := range c.Blocks {
		if excludeRef != "" && block.Reference == excludeRef {
			continue
		}
		if block.Range.Overlaps(r) {
			return false
		}
	}
	return true
}

// Reserve admits the range for the given reservation reference or fails
// with ErrOverlappingRange without mutating the calendar.
func (c *Calendar) Reserve(r daterange.DateRange, reference string, now time.Time) error {
	if !c.CanReserveExcluding(r, reference) {
		c.Record(OverbookingPrevented{RoomID: c.RoomID, Range: r, Reference: reference, At: now.UTC()})
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reference: reference, CreatedAt: now.UTC()})
	c.Record(RangeBlocked{RoomID: c.RoomID, Range: r, Reference: reference, At: now.UTC()})
	return nil
}

// Release removes the block owned by reference once its reservation
// leaves the active statuses.
func (c *Calendar) Release(reference string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.Reference == reference {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrBlockNotFound
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(RangeReleased{RoomID: c.RoomID, Range: removed.Range, Reference: reference, At: now.UTC()})
	return nil
}

// OccupiedRanges returns all blocked ranges ordered by check-in ascending.
func (c *Calendar) OccupiedRanges() []daterange.DateRange {
	out := make([]daterange.DateRange, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		out = append(out, block.Range)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckOut.Before(out[j].CheckOut)
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out
}
