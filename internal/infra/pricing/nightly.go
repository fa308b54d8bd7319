package pricing

import (
	"context"
	"errors"

	"innkeeper/internal/app/policies"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/money"
)

var ErrRoomRequired = errors.New("pricing: room is required")

// NightlyPricer charges nights times the room's nightly rate. The total is
// always computed server-side; client-supplied totals are never trusted.
type NightlyPricer struct {
	Currency string
}

func (p NightlyPricer) Quote(_ context.Context, rm *domainroom.Room, dr domainrange.DateRange, _ int) (policies.Quote, error) {
	if rm == nil {
		return policies.Quote{}, ErrRoomRequired
	}
	if err := dr.Validate(); err != nil {
		return policies.Quote{}, err
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	rate, err := money.New(rm.NightlyRateCents, currency)
	if err != nil {
		return policies.Quote{}, err
	}
	nights := dr.Nights()
	return policies.Quote{
		Nights:      nights,
		NightlyRate: rate,
		Total:       rate.Multiply(int64(nights)),
	}, nil
}

var _ policies.PricingPort = NightlyPricer{}
