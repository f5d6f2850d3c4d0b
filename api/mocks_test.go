package api

import (
	"context"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/service/booking"
	"github.com/Domenick1991/sejour/internal/service/image"
	"github.com/Domenick1991/sejour/internal/service/message"
	"github.com/Domenick1991/sejour/internal/service/property"
	"github.com/Domenick1991/sejour/internal/service/user"
	"github.com/Domenick1991/sejour/internal/upload"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetOwnerID(ctx context.Context, propertyID int64) (int64, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPropertyUseCase struct {
	mock.Mock
}

func (m *MockPropertyUseCase) Create(ctx context.Context, input property.CreatePropertyInput) (*domain.Property, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyUseCase) Search(ctx context.Context, filter domain.PropertyFilter) (*domain.PropertyPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyPage), args.Error(1)
}

func (m *MockPropertyUseCase) Get(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyUseCase) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyUseCase) Update(ctx context.Context, update domain.PropertyUpdate) (*domain.Property, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyUseCase) Archive(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, input user.RegisterInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockUserUseCase) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserUseCase) Get(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockMessageUseCase struct {
	mock.Mock
}

func (m *MockMessageUseCase) Send(ctx context.Context, input message.SendInput) (*domain.Message, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageUseCase) Get(ctx context.Context, id, callerID int64) (*domain.MessageDetail, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageDetail), args.Error(1)
}

func (m *MockMessageUseCase) MarkRead(ctx context.Context, id, callerID int64) (*domain.Message, error) {
	args := m.Called(ctx, id, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageUseCase) Inbox(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserMessage), args.Error(1)
}

func (m *MockMessageUseCase) Outbox(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserMessage), args.Error(1)
}

type MockImageUseCase struct {
	mock.Mock
}

func (m *MockImageUseCase) Upload(ctx context.Context, propertyID int64, files []*upload.File) (*image.UploadResult, error) {
	args := m.Called(ctx, propertyID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*image.UploadResult), args.Error(1)
}

func (m *MockImageUseCase) List(ctx context.Context, propertyID int64) ([]domain.Image, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Image), args.Error(1)
}

func (m *MockImageUseCase) SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error) {
	args := m.Called(ctx, propertyID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageUseCase) Delete(ctx context.Context, propertyID int64, keys []string) (*image.DeleteResult, error) {
	args := m.Called(ctx, propertyID, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*image.DeleteResult), args.Error(1)
}

var errInvalidToken = apperror.Unauthorized("invalid token")

// staticTokens accepts only the tokens it lists.
type staticTokens map[string]*auth.Claims

func (s staticTokens) Parse(raw string) (*auth.Claims, error) {
	if claims, ok := s[raw]; ok {
		return claims, nil
	}
	return nil, errInvalidToken
}
