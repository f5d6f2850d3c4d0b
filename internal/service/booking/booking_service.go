package booking

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetOwnerID(ctx context.Context, propertyID int64) (int64, error)
}

// PropertyLock guards admissions for one property across instances.
// Acquire returns an empty token when another holder has the lock; only the
// returned token releases it.
type PropertyLock interface {
	AcquirePropertyLock(ctx context.Context, propertyID int64) (string, error)
	ReleasePropertyLock(ctx context.Context, propertyID int64, token string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.Event) error
}

type CreateBookingInput struct {
	StartDate  time.Time
	EndDate    time.Time
	PropertyID int64
	GuestID    int64
}

type BookingService struct {
	bookings   repository.BookingRepository
	properties repository.PropertyRepository
	tx         repository.TxManager
	lock       PropertyLock
	events     EventPublisher
	now        func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithPropertyLock(lock PropertyLock) BookingServiceOption {
	return func(s *BookingService) {
		s.lock = lock
	}
}

func WithEvents(events EventPublisher) BookingServiceOption {
	return func(s *BookingService) {
		s.events = events
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	properties repository.PropertyRepository,
	tx repository.TxManager,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		properties: properties,
		tx:         tx,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking admits a booking when the guest does not own the property,
// the range is ordered and no existing booking of the property intersects
// the closed range. Checks run in that order and the first failure wins.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	ownerID, err := s.properties.GetOwnerID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if ownerID == input.GuestID {
		return nil, apperror.BadRequest("guest cannot book own property")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperror.BadRequest("invalid date range")
	}

	if s.lock != nil {
		token, err := s.lock.AcquirePropertyLock(ctx, input.PropertyID)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, apperror.Unavailable("property is being booked, retry")
		}
		defer s.lock.ReleasePropertyLock(context.WithoutCancel(ctx), input.PropertyID, token)
	}

	booking := &domain.Booking{
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		PropertyID: input.PropertyID,
		GuestID:    input.GuestID,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.bookings.LockProperty(ctx, input.PropertyID); err != nil {
			return err
		}
		conflict, err := s.bookings.FindOverlap(ctx, input.PropertyID, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}
		if conflict != nil {
			return apperror.BadRequest("already booked from %s to %s",
				conflict.StartDate.UTC().Format(time.RFC3339), conflict.EndDate.UTC().Format(time.RFC3339))
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	property, err := s.properties.Get(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	booking.Property = property

	s.publish(ctx, domain.Event{
		Type:        domain.EventBookingCreated,
		BookingID:   booking.ID,
		PropertyID:  booking.PropertyID,
		UserID:      booking.GuestID,
		RecipientID: ownerID,
		StartDate:   &booking.StartDate,
		EndDate:     &booking.EndDate,
	})
	return booking, nil
}

// DeleteBooking removes the booking outright; nothing else is touched.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	ownerID, err := s.properties.GetOwnerID(ctx, existing.PropertyID)
	if err != nil {
		// The delete stands; an event without a recipient is useless downstream.
		log.Printf("booking: skip %s event for booking %d: owner lookup: %v", domain.EventBookingDeleted, existing.ID, err)
		return nil
	}
	s.publish(ctx, domain.Event{
		Type:        domain.EventBookingDeleted,
		BookingID:   existing.ID,
		PropertyID:  existing.PropertyID,
		UserID:      existing.GuestID,
		RecipientID: ownerID,
	})
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetOwnerID(ctx context.Context, propertyID int64) (int64, error) {
	return s.properties.GetOwnerID(ctx, propertyID)
}

// publish is best effort: the change is already committed.
func (s *BookingService) publish(ctx context.Context, ev domain.Event) {
	if s.events == nil {
		return
	}
	ev.OccurredAt = s.now().UTC()
	_ = s.events.PublishEvent(ctx, ev)
}

var _ BookingUseCase = (*BookingService)(nil)
