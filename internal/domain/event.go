package domain

import (
	"strconv"
	"time"
)

const (
	EventBookingCreated = "booking_created"
	EventBookingDeleted = "booking_deleted"
	EventMessageSent    = "message_sent"
)

// Event is the envelope published to the event transport after a change
// commits. Unused identifiers are left zero.
type Event struct {
	Type        string     `json:"type"`
	BookingID   int64      `json:"booking_id,omitempty"`
	MessageID   int64      `json:"message_id,omitempty"`
	PropertyID  int64      `json:"property_id,omitempty"`
	UserID      int64      `json:"user_id,omitempty"`
	RecipientID int64      `json:"recipient_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// Key groups events for partitioning: events about one property or one
// message land on the same partition.
func (e Event) Key() string {
	switch {
	case e.PropertyID != 0:
		return "property-" + strconv.FormatInt(e.PropertyID, 10)
	case e.MessageID != 0:
		return "message-" + strconv.FormatInt(e.MessageID, 10)
	default:
		return e.Type
	}
}
