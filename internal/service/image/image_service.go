package image

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/Domenick1991/sejour/internal/upload"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const uploadConcurrency = 4

type ImageUseCase interface {
	Upload(ctx context.Context, propertyID int64, files []*upload.File) (*UploadResult, error)
	List(ctx context.Context, propertyID int64) ([]domain.Image, error)
	SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error)
	Delete(ctx context.Context, propertyID int64, keys []string) (*DeleteResult, error)
}

type ObjectStore interface {
	Put(ctx context.Context, propertyID int64, key, contentType string, data []byte) error
	Delete(ctx context.Context, propertyID int64, key string) error
}

// Invalidator drops cached property snapshots whose images changed.
type Invalidator interface {
	Invalidate(ctx context.Context, propertyID int64)
}

// UploadResult is partial when Errors is non-empty.
type UploadResult struct {
	Images []domain.Image `json:"images"`
	Errors []string       `json:"errors,omitempty"`
}

type DeleteResult struct {
	Deleted []string `json:"deleted"`
	Errors  []string `json:"errors,omitempty"`
}

type ImageService struct {
	images      repository.ImageRepository
	properties  repository.PropertyRepository
	tx          repository.TxManager
	store       ObjectStore
	invalidator Invalidator
	maxFiles    int
}

func NewImageService(
	images repository.ImageRepository,
	properties repository.PropertyRepository,
	tx repository.TxManager,
	store ObjectStore,
	invalidator Invalidator,
	maxFiles int,
) *ImageService {
	return &ImageService{
		images:      images,
		properties:  properties,
		tx:          tx,
		store:       store,
		invalidator: invalidator,
		maxFiles:    maxFiles,
	}
}

// Upload stores every file under a fresh key and records it. Files are
// processed concurrently; one failing file does not stop the others.
func (s *ImageService) Upload(ctx context.Context, propertyID int64, files []*upload.File) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, apperror.BadRequest("no files uploaded")
	}
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, apperror.BadRequest("at most %d files per upload", s.maxFiles)
	}
	if _, err := s.properties.GetOwnerID(ctx, propertyID); err != nil {
		return nil, err
	}

	stored := make([]*domain.Image, len(files))
	failures := make([]string, len(files))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			key := uuid.NewString() + strings.ToLower(filepath.Ext(f.Name))
			if err := s.store.Put(ctx, propertyID, key, f.ContentType, f.Data); err != nil {
				failures[i] = fmt.Sprintf("%s: upload failed", f.Name)
				return nil
			}
			img := &domain.Image{ImageKey: key, PropertyID: propertyID}
			if err := s.images.Create(ctx, img); err != nil {
				_ = s.store.Delete(ctx, propertyID, key)
				failures[i] = fmt.Sprintf("%s: %v", f.Name, err)
				return nil
			}
			stored[i] = img
			return nil
		})
	}
	_ = g.Wait()

	result := &UploadResult{Images: make([]domain.Image, 0, len(files))}
	for i := range files {
		if stored[i] != nil {
			result.Images = append(result.Images, *stored[i])
		}
		if failures[i] != "" {
			result.Errors = append(result.Errors, failures[i])
		}
	}
	if len(result.Images) > 0 {
		s.invalidate(ctx, propertyID)
	}
	return result, nil
}

func (s *ImageService) List(ctx context.Context, propertyID int64) ([]domain.Image, error) {
	if _, err := s.properties.GetOwnerID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.images.ListByProperty(ctx, propertyID)
}

func (s *ImageService) SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error) {
	var cover *domain.Image
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		cover, err = s.images.SetCover(ctx, propertyID, imageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, propertyID)
	return cover, nil
}

// Delete removes each key from the object store and then from the
// database. Keys that fail either step are reported in Errors.
func (s *ImageService) Delete(ctx context.Context, propertyID int64, keys []string) (*DeleteResult, error) {
	if len(keys) == 0 {
		return nil, apperror.BadRequest("imageKeys is required")
	}

	var (
		mu     sync.Mutex
		result = &DeleteResult{Deleted: []string{}}
		g      errgroup.Group
	)
	g.SetLimit(uploadConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			err := s.store.Delete(ctx, propertyID, key)
			if err == nil {
				err = s.images.DeleteByKey(ctx, propertyID, key)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", key, err))
			} else {
				result.Deleted = append(result.Deleted, key)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(result.Deleted) > 0 {
		s.invalidate(ctx, propertyID)
	}
	return result, nil
}

func (s *ImageService) invalidate(ctx context.Context, propertyID int64) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, propertyID)
	}
}

var _ ImageUseCase = (*ImageService)(nil)
