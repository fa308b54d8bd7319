package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeeper/internal/app/dto"
	availabilityapp "innkeeper/internal/app/handlers/availability"
	"innkeeper/internal/app/queries"
)

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	Check(c *gin.Context)
}

type AvailabilityHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	result, err := queries.Ask[availabilityapp.GetRoomCalendarQuery, dto.RoomCalendar](c.Request.Context(), h.Queries, availabilityapp.GetRoomCalendarQuery{RoomID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	q := availabilityapp.CheckAvailabilityQuery{
		RoomID:   c.Param("id"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, availabilityapp.CheckAvailabilityResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
