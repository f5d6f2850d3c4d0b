package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/sejour/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.PropertySummary, int, error)
	Get(ctx context.Context, id int64) (*domain.Property, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, update domain.PropertyUpdate) (*domain.Property, error)
	Archive(ctx context.Context, id int64) error
}

type BookingRepository interface {
	// LockProperty serializes admissions for one property until the
	// surrounding transaction ends.
	LockProperty(ctx context.Context, propertyID int64) error
	// FindOverlap returns the lowest-id booking of the property whose closed
	// interval intersects [start, end], or nil when the range is free.
	FindOverlap(ctx context.Context, propertyID int64, start, end time.Time) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id int64) (*domain.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*domain.Message, error)
	ListTo(ctx context.Context, userID int64) ([]domain.UserMessage, error)
	ListFrom(ctx context.Context, userID int64) ([]domain.UserMessage, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Image, error)
	SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error)
	DeleteByKey(ctx context.Context, propertyID int64, key string) error
}

// TxManager runs fn inside one transaction. Repositories called with the
// context handed to fn take part in that transaction; nested calls reuse it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Set bundles the repositories of one storage backend.
type Set struct {
	Users      UserRepository
	Properties PropertyRepository
	Bookings   BookingRepository
	Messages   MessageRepository
	Images     ImageRepository
	Tx         TxManager
}
