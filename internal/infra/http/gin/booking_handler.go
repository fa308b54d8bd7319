package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	bookingapp "innkeeper/internal/app/handlers/booking"
	"innkeeper/internal/app/queries"
	domainreservation "innkeeper/internal/domain/reservation"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Cancel(c *gin.Context)
	AdminList(c *gin.Context)
	AdminTransition(c *gin.Context)
}

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Note     string `json:"note"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := bookingapp.CreateReservationCommand{
		CommandID:       uuid.NewString(),
		RoomID:          req.RoomID,
		HolderID:        user.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Note:            req.Note,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateReservationCommand, *bookingapp.CreateReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	cmd := bookingapp.TransitionReservationCommand{
		ReservationID: c.Param("id"),
		Target:        string(domainreservation.StatusCancelled),
		ActorID:       user.ID,
		ActorIsAdmin:  user.IsAdmin(),
	}
	result, err := commands.Dispatch[bookingapp.TransitionReservationCommand, *bookingapp.TransitionReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) AdminList(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	result, err := queries.Ask[bookingapp.ListReservationsQuery, dto.ReservationCollection](c.Request.Context(), h.Queries, bookingapp.ListReservationsQuery{Status: c.Query("status")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h BookingHandler) AdminTransition(c *gin.Context) {
	user, ok := requireRole(c, "admin")
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.TransitionReservationCommand{
		ReservationID: c.Param("id"),
		Target:        req.Status,
		ActorID:       user.ID,
		ActorIsAdmin:  true,
	}
	result, err := commands.Dispatch[bookingapp.TransitionReservationCommand, *bookingapp.TransitionReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
