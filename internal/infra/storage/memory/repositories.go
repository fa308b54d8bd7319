package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainavailability "innkeeper/internal/domain/availability"
	domaincontact "innkeeper/internal/domain/contact"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
)

// ErrConcurrentUpdate is returned when a calendar save loses the race
// against another writer. Callers may retry the whole admission.
var ErrConcurrentUpdate = errors.New("memory: concurrent update detected")

// RoomRepository is an in-memory room store.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainroom.ID]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.ID]*domainroom.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	return rm, nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm.Version++
	r.items[rm.ID] = rm
	return nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainroom.Room, 0, len(r.items))
	for _, rm := range r.items {
		out = append(out, rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RoomRepository) Delete(ctx context.Context, id domainroom.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainroom.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ReservationRepository stores reservations in memory. Entries are never
// deleted; terminal statuses keep the history around.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[domainreservation.ID]*domainreservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[domainreservation.ID]*domainreservation.Reservation)}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	return res, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Version++
	r.items[res.ID] = res
	return nil
}

func (r *ReservationRepository) ListByHolder(ctx context.Context, holderID string) ([]*domainreservation.Reservation, error) {
	holderID = strings.TrimSpace(holderID)
	if holderID == "" {
		return nil, errors.New("memory: holder id required")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainreservation.Reservation, 0)
	for _, res := range r.items {
		if res.HolderID == holderID {
			matches = append(matches, res)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches, nil
}

func (r *ReservationRepository) ListAll(ctx context.Context) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreservation.Reservation, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CalendarRepository keeps room calendars in memory. Calendar hands out a
// deep copy and Save compares the copy's version against the stored one,
// so two racing admissions for the same room cannot both commit.
type CalendarRepository struct {
	mu        sync.Mutex
	calendars map[domainroom.ID]*domainavailability.Calendar
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{calendars: make(map[domainroom.ID]*domainavailability.Calendar)}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainroom.ID) (*domainavailability.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.calendars[id]
	if !ok {
		return domainavailability.NewCalendar(id), nil
	}
	return copyCalendar(stored), nil
}

func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.calendars[calendar.RoomID]
	if ok && stored.Version != calendar.Version {
		return ErrConcurrentUpdate
	}
	if !ok && calendar.Version != 0 {
		return ErrConcurrentUpdate
	}
	snapshot := copyCalendar(calendar)
	snapshot.Version++
	r.calendars[calendar.RoomID] = snapshot
	calendar.Version = snapshot.Version
	return nil
}

func copyCalendar(src *domainavailability.Calendar) *domainavailability.Calendar {
	dst := domainavailability.NewCalendar(src.RoomID)
	dst.Blocks = append([]domainavailability.Block(nil), src.Blocks...)
	dst.Version = src.Version
	return dst
}

// ContactRepository stores contact-form messages in memory.
type ContactRepository struct {
	mu    sync.RWMutex
	items []*domaincontact.Message
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Save(ctx context.Context, msg *domaincontact.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, msg)
	return nil
}

func (r *ContactRepository) List(ctx context.Context) ([]*domaincontact.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincontact.Message, len(r.items))
	copy(out, r.items)
	return out, nil
}
