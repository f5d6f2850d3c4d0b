// Package email turns domain events into notification emails. Delivery is a
// log line; an SMTP transport can replace the logger without touching callers.
package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/sejour/internal/domain"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Sender struct {
	users  UserLookup
	logger *log.Logger
}

func NewSender(users UserLookup, logger *log.Logger) *Sender {
	if logger == nil {
		logger = log.Default()
	}
	return &Sender{users: users, logger: logger}
}

// Compose returns the subject and body for ev, or ok=false for events that
// need no email.
func Compose(ev domain.Event) (subject, body string, ok bool) {
	switch ev.Type {
	case domain.EventBookingCreated:
		return "New booking", fmt.Sprintf("Property %d was booked from %s to %s (booking %d).",
			ev.PropertyID, formatDate(ev.StartDate), formatDate(ev.EndDate), ev.BookingID), true
	case domain.EventBookingDeleted:
		return "Booking cancelled", fmt.Sprintf("Booking %d for property %d was cancelled.", ev.BookingID, ev.PropertyID), true
	case domain.EventMessageSent:
		return "New message", fmt.Sprintf("You have a new message (%d) from user %d.", ev.MessageID, ev.UserID), true
	default:
		return "", "", false
	}
}

// Send mails the event's recipient. Events without a recipient or with an
// unknown type are dropped.
func (s *Sender) Send(ctx context.Context, ev domain.Event) error {
	subject, body, ok := Compose(ev)
	if !ok || ev.RecipientID == 0 {
		return nil
	}

	user, err := s.users.GetByID(ctx, ev.RecipientID)
	if err != nil {
		return fmt.Errorf("lookup recipient %d: %w", ev.RecipientID, err)
	}

	s.logger.Printf("send email to %s: %s: %s", user.Email, subject, body)
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02")
}
