package contact

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired      = errors.New("contact: id is required")
	ErrNameRequired    = errors.New("contact: name is required")
	ErrEmailRequired   = errors.New("contact: email is required")
	ErrMessageRequired = errors.New("contact: message is required")
)

type ID string

// Message is a submitted contact-form entry. Subject is optional.
type Message struct {
	ID        ID
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, msg *Message) error
	List(ctx context.Context) ([]*Message, error)
}

type CreateParams struct {
	ID        ID
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

func New(params CreateParams) (*Message, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, ErrMessageRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Message{
		ID:        params.ID,
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(params.Subject),
		Body:      body,
		CreatedAt: now.UTC(),
	}, nil
}
