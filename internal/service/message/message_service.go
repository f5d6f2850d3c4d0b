package message

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
)

const maxBodyLength = 4000

type MessageUseCase interface {
	Send(ctx context.Context, input SendInput) (*domain.Message, error)
	Get(ctx context.Context, id, callerID int64) (*domain.MessageDetail, error)
	MarkRead(ctx context.Context, id, callerID int64) (*domain.Message, error)
	Inbox(ctx context.Context, userID int64) ([]domain.UserMessage, error)
	Outbox(ctx context.Context, userID int64) ([]domain.UserMessage, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.Event) error
}

type SendInput struct {
	FromID int64
	ToID   int64
	Body   string
}

type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	events   EventPublisher
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, events EventPublisher) *MessageService {
	return &MessageService{messages: messages, users: users, events: events}
}

func (s *MessageService) Send(ctx context.Context, input SendInput) (*domain.Message, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperror.BadRequest("message body is required")
	}
	if len(body) > maxBodyLength {
		return nil, apperror.BadRequest("message body exceeds %d characters", maxBodyLength)
	}
	if _, err := s.users.GetByID(ctx, input.ToID); err != nil {
		return nil, err
	}

	m := &domain.Message{FromID: input.FromID, ToID: input.ToID, Body: body}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishEvent(ctx, domain.Event{
			Type:        domain.EventMessageSent,
			MessageID:   m.ID,
			UserID:      m.FromID,
			RecipientID: m.ToID,
			OccurredAt:  time.Now().UTC(),
		})
	}
	return m, nil
}

// Get is limited to the two parties of the message.
func (s *MessageService) Get(ctx context.Context, id, callerID int64) (*domain.MessageDetail, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.FromUser.ID != callerID && m.ToUser.ID != callerID {
		return nil, apperror.Unauthorized("not a party to this message")
	}
	return m, nil
}

// MarkRead is limited to the recipient.
func (s *MessageService) MarkRead(ctx context.Context, id, callerID int64) (*domain.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ToUser.ID != callerID {
		return nil, apperror.Unauthorized("only the recipient can mark a message read")
	}
	return s.messages.MarkRead(ctx, id)
}

func (s *MessageService) Inbox(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return s.messages.ListTo(ctx, userID)
}

func (s *MessageService) Outbox(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return s.messages.ListFrom(ctx, userID)
}

var _ MessageUseCase = (*MessageService)(nil)
