package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	contactapp "innkeeper/internal/app/handlers/contactform"
	"innkeeper/internal/app/queries"
)

type ContactHTTP interface {
	Submit(c *gin.Context)
	AdminList(c *gin.Context)
}

type ContactHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

func (h ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := contactapp.SubmitContactCommand{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	result, err := commands.Dispatch[contactapp.SubmitContactCommand, *contactapp.SubmitContactResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ContactHandler) AdminList(c *gin.Context) {
	result, err := queries.Ask[contactapp.ListContactMessagesQuery, dto.ContactMessageCollection](c.Request.Context(), h.Queries, contactapp.ListContactMessagesQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ContactHTTP = ContactHandler{}
