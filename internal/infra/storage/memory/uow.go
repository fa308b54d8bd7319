package memory

import (
	"context"
	"errors"

	"innkeeper/internal/app/uow"
	domainavailability "innkeeper/internal/domain/availability"
	domaincontact "innkeeper/internal/domain/contact"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work boundary.
// No isolation is provided; atomic admission comes from the calendar
// repository's compare-and-swap save.
type Factory struct {
	RoomRepo        domainroom.Repository
	ReservationRepo domainreservation.Repository
	CalendarRepo    domainavailability.Repository
	ContactRepo     domaincontact.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.RoomRepo == nil || f.ReservationRepo == nil || f.CalendarRepo == nil || f.ContactRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		rooms:        f.RoomRepo,
		reservations: f.ReservationRepo,
		availability: f.CalendarRepo,
		contacts:     f.ContactRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	rooms        domainroom.Repository
	reservations domainreservation.Repository
	availability domainavailability.Repository
	contacts     domaincontact.Repository
}

func (u *Unit) Rooms() domainroom.Repository {
	return u.rooms
}

func (u *Unit) Reservations() domainreservation.Repository {
	return u.reservations
}

func (u *Unit) Availability() domainavailability.Repository {
	return u.availability
}

func (u *Unit) Contacts() domaincontact.Repository {
	return u.contacts
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
