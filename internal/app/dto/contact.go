package dto

import (
	"time"

	domaincontact "innkeeper/internal/domain/contact"
)

type ContactMessageView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessageCollection struct {
	Items []ContactMessageView `json:"items"`
}

func MapContactMessage(msg *domaincontact.Message) ContactMessageView {
	return ContactMessageView{
		ID:        string(msg.ID),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
