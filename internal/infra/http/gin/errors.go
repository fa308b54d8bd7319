package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"innkeeper/internal/app/handlers/booking"
	authsvc "innkeeper/internal/app/services/auth"
	domainavailability "innkeeper/internal/domain/availability"
	domaincontact "innkeeper/internal/domain/contact"
	domainreservation "innkeeper/internal/domain/reservation"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
	"innkeeper/internal/domain/shared/money"
	domainuser "innkeeper/internal/domain/user"
	dbmongo "innkeeper/internal/infra/db/mongo"
	"innkeeper/internal/infra/storage/memory"
)

// respondError maps domain and application errors onto HTTP statuses:
// validation 400, not found 404, conflicts and invalid transitions 409,
// lost write races 409 with a retryable hint, everything else 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainreservation.ErrInvalidGuests),
		errors.Is(err, domainreservation.ErrHolderRequired),
		errors.Is(err, domainreservation.ErrNegativeTotal),
		errors.Is(err, domainroom.ErrNameRequired),
		errors.Is(err, domainroom.ErrInvalidCapacity),
		errors.Is(err, domainroom.ErrInvalidType),
		errors.Is(err, domainroom.ErrNightlyRate),
		errors.Is(err, domainroom.ErrIDRequired),
		errors.Is(err, domaincontact.ErrNameRequired),
		errors.Is(err, domaincontact.ErrEmailRequired),
		errors.Is(err, domaincontact.ErrMessageRequired),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, booking.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainroom.ErrNotFound),
		errors.Is(err, domainreservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainavailability.ErrOverlappingRange),
		errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, domainreservation.ErrInvalidTransition),
		errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dbmongo.ErrConcurrentUpdate),
		errors.Is(err, memory.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	case errors.Is(err, booking.ErrNotReservationHolder):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		if logger != nil {
			logger.Error("request failed", "error", err, "path", c.FullPath())
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDate accepts a calendar date, falling back to RFC 3339 for clients
// that send full timestamps. Only the date part is kept either way.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domainrange.ErrInvalidRange
	}
	return t, nil
}
