package property

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.PropertySummary, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PropertySummary), args.Int(1), args.Error(2)
}

func (m *MockPropertyRepository) Get(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, update domain.PropertyUpdate) (*domain.Property, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) Archive(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Locate(ctx context.Context, addr geocoding.Address) (geocoding.Coordinates, error) {
	args := m.Called(ctx, addr)
	return args.Get(0).(geocoding.Coordinates), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockCache) SetProperty(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCache) InvalidateProperty(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestPropertyService_Create(t *testing.T) {
	repo := &MockPropertyRepository{}
	geo := &MockGeocoder{}
	service := NewPropertyService(repo, geo, nil)

	addr := geocoding.Address{Street: "1 Main", City: "Town", State: "CA", Zipcode: "90000"}
	geo.On("Locate", mock.Anything, addr).Return(geocoding.Coordinates{Latitude: "34.1", Longitude: "-118.2"}, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Property) bool {
		return p.Latitude == "34.1" && p.Longitude == "-118.2" && p.OwnerID == 3
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Property).ID = 9
	}).Return(nil).Once()

	p, err := service.Create(context.Background(), CreatePropertyInput{
		Title: "Beach", Street: "1 Main", City: "Town", State: "CA", Zipcode: "90000", Description: "sand", Price: 200, OwnerID: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.NotNil(t, p.Images)
	repo.AssertExpectations(t)
	geo.AssertExpectations(t)
}

func TestPropertyService_Create_Errors(t *testing.T) {
	t.Run("missing title", func(t *testing.T) {
		service := NewPropertyService(&MockPropertyRepository{}, &MockGeocoder{}, nil)
		_, err := service.Create(context.Background(), CreatePropertyInput{Price: 10})
		assert.ErrorIs(t, err, apperror.ErrBadRequest)
	})

	t.Run("geocoder failure", func(t *testing.T) {
		repo := &MockPropertyRepository{}
		geo := &MockGeocoder{}
		geo.On("Locate", mock.Anything, mock.Anything).Return(geocoding.Coordinates{}, apperror.BadRequest("address not found")).Once()

		_, err := NewPropertyService(repo, geo, nil).Create(context.Background(), CreatePropertyInput{Title: "x"})
		assert.ErrorIs(t, err, apperror.ErrBadRequest)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPropertyService_Search(t *testing.T) {
	repo := &MockPropertyRepository{}
	service := NewPropertyService(repo, nil, nil)

	rows := []domain.PropertySummary{{ID: 1}, {ID: 2}}
	repo.On("Search", mock.Anything, domain.PropertyFilter{Description: "sea", Limit: DefaultLimit, Page: 1}).Return(rows, 21, nil).Once()

	page, err := service.Search(context.Background(), domain.PropertyFilter{Description: "sea"})

	require.NoError(t, err)
	assert.Equal(t, rows, page.Properties)
	assert.Equal(t, domain.Pagination{CurrentPage: 1, TotalResults: 21, TotalPages: 3, Limit: DefaultLimit}, page.Pagination)
}

func TestPropertyService_Search_LimitCapped(t *testing.T) {
	repo := &MockPropertyRepository{}
	repo.On("Search", mock.Anything, domain.PropertyFilter{Limit: MaxLimit, Page: 2}).Return([]domain.PropertySummary{}, 0, nil).Once()

	page, err := NewPropertyService(repo, nil, nil).Search(context.Background(), domain.PropertyFilter{Limit: 1000, Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	repo.AssertExpectations(t)
}

func TestPropertyService_Search_MinAboveMax(t *testing.T) {
	repo := &MockPropertyRepository{}
	lo, hi := int64(300), int64(100)

	_, err := NewPropertyService(repo, nil, nil).Search(context.Background(), domain.PropertyFilter{MinPrice: &lo, MaxPrice: &hi})

	assert.ErrorIs(t, err, apperror.ErrBadRequest)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestPropertyService_Get_Cache(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		repo := &MockPropertyRepository{}
		cache := &MockCache{}
		cached := &domain.Property{ID: 1, Title: "cached"}
		cache.On("GetProperty", mock.Anything, int64(1)).Return(cached, nil).Once()

		p, err := NewPropertyService(repo, nil, cache).Get(context.Background(), 1)

		require.NoError(t, err)
		assert.Same(t, cached, p)
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("miss fills cache", func(t *testing.T) {
		repo := &MockPropertyRepository{}
		cache := &MockCache{}
		stored := &domain.Property{ID: 1}
		cache.On("GetProperty", mock.Anything, int64(1)).Return(nil, nil).Once()
		repo.On("Get", mock.Anything, int64(1)).Return(stored, nil).Once()
		cache.On("SetProperty", mock.Anything, stored).Return(nil).Once()

		p, err := NewPropertyService(repo, nil, cache).Get(context.Background(), 1)

		require.NoError(t, err)
		assert.Same(t, stored, p)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls through", func(t *testing.T) {
		repo := &MockPropertyRepository{}
		cache := &MockCache{}
		cache.On("GetProperty", mock.Anything, int64(1)).Return(nil, errors.New("redis down")).Once()
		repo.On("Get", mock.Anything, int64(1)).Return(nil, apperror.NotFound("no such property")).Once()

		_, err := NewPropertyService(repo, nil, cache).Get(context.Background(), 1)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		cache.AssertNotCalled(t, "SetProperty", mock.Anything, mock.Anything)
	})
}

func TestPropertyService_UpdateArchive_Invalidate(t *testing.T) {
	repo := &MockPropertyRepository{}
	cache := &MockCache{}
	service := NewPropertyService(repo, nil, cache)
	update := domain.PropertyUpdate{ID: 4, Title: "New", Description: "d", Price: 10}

	repo.On("Update", mock.Anything, update).Return(&domain.Property{ID: 4, Title: "New"}, nil).Once()
	repo.On("Archive", mock.Anything, int64(4)).Return(nil).Once()
	cache.On("InvalidateProperty", mock.Anything, int64(4)).Return(nil).Twice()

	p, err := service.Update(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, "New", p.Title)
	require.NoError(t, service.Archive(context.Background(), 4))

	cache.AssertExpectations(t)
}

func TestPropertyService_Archive_NotFound(t *testing.T) {
	repo := &MockPropertyRepository{}
	cache := &MockCache{}
	repo.On("Archive", mock.Anything, int64(4)).Return(apperror.NotFound("no such property")).Once()

	err := NewPropertyService(repo, nil, cache).Archive(context.Background(), 4)

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	cache.AssertNotCalled(t, "InvalidateProperty", mock.Anything, mock.Anything)
}
