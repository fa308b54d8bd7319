package contactform

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"innkeeper/internal/app/commands"
	"innkeeper/internal/app/dto"
	handlersupport "innkeeper/internal/app/handlers/support"
	"innkeeper/internal/app/queries"
	"innkeeper/internal/app/uow"
	domaincontact "innkeeper/internal/domain/contact"
)

const (
	submitContactKey       = "contact.submit"
	listContactMessagesKey = "admin.contact.list"
)

type SubmitContactCommand struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

func (c SubmitContactCommand) Key() string { return submitContactKey }

type SubmitContactResult struct {
	MessageID string `json:"message_id"`
}

type SubmitContactHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (h *SubmitContactHandler) Handle(ctx context.Context, cmd SubmitContactCommand) (*SubmitContactResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	msg, err := domaincontact.New(domaincontact.CreateParams{
		ID:        domaincontact.ID(uuid.NewString()),
		Name:      cmd.Name,
		Email:     cmd.Email,
		Subject:   cmd.Subject,
		Body:      cmd.Body,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Contacts().Save(ctx, msg); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("contact message stored", "message_id", msg.ID)
	}
	return &SubmitContactResult{MessageID: string(msg.ID)}, nil
}

type ListContactMessagesQuery struct{}

func (q ListContactMessagesQuery) Key() string { return listContactMessagesKey }

type ListContactMessagesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListContactMessagesHandler) Handle(ctx context.Context, q ListContactMessagesQuery) (dto.ContactMessageCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ContactMessageCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Contacts().List(execCtx)
	if err != nil {
		return dto.ContactMessageCollection{}, err
	}
	items := make([]dto.ContactMessageView, 0, len(all))
	for _, msg := range all {
		items = append(items, dto.MapContactMessage(msg))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return dto.ContactMessageCollection{Items: items}, nil
}

var _ commands.Handler[SubmitContactCommand, *SubmitContactResult] = (*SubmitContactHandler)(nil)
var _ queries.Handler[ListContactMessagesQuery, dto.ContactMessageCollection] = (*ListContactMessagesHandler)(nil)
