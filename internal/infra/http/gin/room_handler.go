package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	roomsapp "innkeeper/internal/app/handlers/rooms"
	"innkeeper/internal/app/queries"
)

type RoomHTTP interface {
	List(c *gin.Context)
	Featured(c *gin.Context)
	Get(c *gin.Context)
	AdminCreate(c *gin.Context)
	AdminUpdate(c *gin.Context)
	AdminDelete(c *gin.Context)
	AdminUploadPhoto(c *gin.Context)
}

type RoomHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h RoomHandler) List(c *gin.Context) {
	result, err := queries.Ask[roomsapp.ListRoomsQuery, dto.RoomCollection](c.Request.Context(), h.Queries, roomsapp.ListRoomsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) Featured(c *gin.Context) {
	result, err := queries.Ask[roomsapp.FeaturedRoomsQuery, dto.RoomCollection](c.Request.Context(), h.Queries, roomsapp.FeaturedRoomsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) Get(c *gin.Context) {
	result, err := queries.Ask[roomsapp.GetRoomQuery, dto.RoomView](c.Request.Context(), h.Queries, roomsapp.GetRoomQuery{RoomID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type roomRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Type             *string  `json:"type"`
	Capacity         *int     `json:"capacity"`
	NightlyRateCents *int64   `json:"nightly_rate_cents"`
	SizeSqft         *int     `json:"size_sqft"`
	Amenities        []string `json:"amenities"`
	Photos           []string `json:"photos"`
	Available        *bool    `json:"available"`
}

func (h RoomHandler) AdminCreate(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := roomsapp.CreateRoomCommand{
		Name:      strOrEmpty(req.Name),
		Available: true,
		Amenities: req.Amenities,
		Photos:    req.Photos,
	}
	if req.Description != nil {
		cmd.Description = *req.Description
	}
	if req.Type != nil {
		cmd.Type = *req.Type
	}
	if req.Capacity != nil {
		cmd.Capacity = *req.Capacity
	}
	if req.NightlyRateCents != nil {
		cmd.NightlyRateCents = *req.NightlyRateCents
	}
	if req.SizeSqft != nil {
		cmd.SizeSqft = *req.SizeSqft
	}
	if req.Available != nil {
		cmd.Available = *req.Available
	}
	result, err := commands.Dispatch[roomsapp.CreateRoomCommand, *dto.RoomView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RoomHandler) AdminUpdate(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := roomsapp.UpdateRoomCommand{
		RoomID:           c.Param("id"),
		Name:             req.Name,
		Description:      req.Description,
		Type:             req.Type,
		Capacity:         req.Capacity,
		NightlyRateCents: req.NightlyRateCents,
		SizeSqft:         req.SizeSqft,
		Amenities:        req.Amenities,
		Available:        req.Available,
	}
	result, err := commands.Dispatch[roomsapp.UpdateRoomCommand, *dto.RoomView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) AdminDelete(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	cmd := roomsapp.DeleteRoomCommand{RoomID: c.Param("id")}
	result, err := commands.Dispatch[roomsapp.DeleteRoomCommand, *roomsapp.DeleteRoomResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RoomHandler) AdminUploadPhoto(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	roomID := c.Param("id")
	ext := strings.ToLower(path.Ext(header.Filename))
	cmd := roomsapp.UploadRoomPhotoCommand{
		RoomID:      roomID,
		ObjectKey:   fmt.Sprintf("rooms/%s/%s%s", roomID, uuid.NewString(), ext),
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}
	result, err := commands.Dispatch[roomsapp.UploadRoomPhotoCommand, *roomsapp.UploadRoomPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ RoomHTTP = RoomHandler{}
