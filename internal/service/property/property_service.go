package property

import (
	"context"
	"log"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/geocoding"
	"github.com/Domenick1991/sejour/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type PropertyUseCase interface {
	Create(ctx context.Context, input CreatePropertyInput) (*domain.Property, error)
	Search(ctx context.Context, filter domain.PropertyFilter) (*domain.PropertyPage, error)
	Get(ctx context.Context, id int64) (*domain.Property, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, update domain.PropertyUpdate) (*domain.Property, error)
	Archive(ctx context.Context, id int64) error
}

type Geocoder interface {
	Locate(ctx context.Context, addr geocoding.Address) (geocoding.Coordinates, error)
}

type Cache interface {
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
	SetProperty(ctx context.Context, p *domain.Property) error
	InvalidateProperty(ctx context.Context, id int64) error
}

type CreatePropertyInput struct {
	Title       string
	Street      string
	City        string
	State       string
	Zipcode     string
	Description string
	Price       int64
	OwnerID     int64
}

type PropertyService struct {
	repo     repository.PropertyRepository
	geocoder Geocoder
	cache    Cache
}

func NewPropertyService(repo repository.PropertyRepository, geocoder Geocoder, cache Cache) *PropertyService {
	return &PropertyService{repo: repo, geocoder: geocoder, cache: cache}
}

func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput) (*domain.Property, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.BadRequest("title is required")
	}
	if input.Price < 0 {
		return nil, apperror.BadRequest("price must not be negative")
	}

	coords, err := s.geocoder.Locate(ctx, geocoding.Address{
		Street:  input.Street,
		City:    input.City,
		State:   input.State,
		Zipcode: input.Zipcode,
	})
	if err != nil {
		return nil, err
	}

	p := &domain.Property{
		Title:       input.Title,
		Street:      input.Street,
		City:        input.City,
		State:       input.State,
		Zipcode:     input.Zipcode,
		Latitude:    coords.Latitude,
		Longitude:   coords.Longitude,
		Description: input.Description,
		Price:       input.Price,
		OwnerID:     input.OwnerID,
		Images:      []domain.Image{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Search pages through non-archived properties. Limit defaults to
// DefaultLimit and is capped at MaxLimit; pages start at 1.
func (s *PropertyService) Search(ctx context.Context, filter domain.PropertyFilter) (*domain.PropertyPage, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, apperror.BadRequest("min price cannot be greater than max")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	list, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &domain.PropertyPage{
		Properties: list,
		Pagination: domain.Pagination{
			CurrentPage:  filter.Page,
			TotalResults: total,
			TotalPages:   (total + filter.Limit - 1) / filter.Limit,
			Limit:        filter.Limit,
		},
	}, nil
}

// Get serves from the cache when possible; cache failures fall through to
// the repository.
func (s *PropertyService) Get(ctx context.Context, id int64) (*domain.Property, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProperty(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetProperty(ctx, p)
	}
	return p, nil
}

func (s *PropertyService) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return s.repo.GetOwnerID(ctx, id)
}

func (s *PropertyService) Update(ctx context.Context, update domain.PropertyUpdate) (*domain.Property, error) {
	if strings.TrimSpace(update.Title) == "" {
		return nil, apperror.BadRequest("title is required")
	}
	if update.Price < 0 {
		return nil, apperror.BadRequest("price must not be negative")
	}
	p, err := s.repo.Update(ctx, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, update.ID)
	return p, nil
}

func (s *PropertyService) Archive(ctx context.Context, id int64) error {
	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached snapshot, e.g. after its images change.
func (s *PropertyService) Invalidate(ctx context.Context, id int64) {
	s.invalidate(ctx, id)
}

func (s *PropertyService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProperty(ctx, id); err != nil {
		log.Printf("property cache: invalidate %d: %v", id, err)
	}
}

var _ PropertyUseCase = (*PropertyService)(nil)
