package policies

import (
	"context"

	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/money"
)

// Quote is the priced outcome of a stay.
type Quote struct {
	Nights      int
	NightlyRate money.Money
	Total       money.Money
}

// PricingPort computes the amount charged for a stay in the given room.
type PricingPort interface {
	Quote(ctx context.Context, rm *domainroom.Room, dr domainrange.DateRange, guests int) (Quote, error)
}
