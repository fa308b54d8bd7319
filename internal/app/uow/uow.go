package uow

import (
	"context"

	domainavailability "innkeeper/internal/domain/availability"
	domaincontact "innkeeper/internal/domain/contact"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Rooms() domainroom.Repository
	Reservations() domainreservation.Repository
	Availability() domainavailability.Repository
	Contacts() domaincontact.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
