package sqlite

import (
	"context"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/jmoiron/sqlx"
)

type imageRow struct {
	ID           int64  `db:"id"`
	ImageKey     string `db:"image_key"`
	PropertyID   int64  `db:"property_id"`
	IsCoverImage bool   `db:"is_cover_image"`
}

func (r imageRow) toDomain() domain.Image {
	return domain.Image{ID: r.ID, ImageKey: r.ImageKey, PropertyID: r.PropertyID, IsCoverImage: r.IsCoverImage}
}

type ImageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO images(image_key, property_id, is_cover_image) VALUES(?,?,?)`,
		img.ImageKey, img.PropertyID, img.IsCoverImage)
	switch {
	case isConstraint(err, "FOREIGN KEY"):
		return apperror.NotFound("no such property: %d", img.PropertyID)
	case isConstraint(err, "UNIQUE"):
		return apperror.BadRequest("image %s already exists", img.ImageKey)
	case err != nil:
		return err
	}
	img.ID, err = res.LastInsertId()
	return err
}

func (r *ImageRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Image, error) {
	var rows []imageRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, `SELECT id, image_key, property_id, is_cover_image FROM images WHERE property_id=? ORDER BY image_key`, propertyID); err != nil {
		return nil, err
	}
	images := make([]domain.Image, 0, len(rows))
	for _, row := range rows {
		images = append(images, row.toDomain())
	}
	return images, nil
}

func (r *ImageRepository) SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error) {
	q := conn(ctx, r.db)
	var row imageRow
	if err := q.GetContext(ctx, &row, `SELECT id, image_key, property_id, is_cover_image FROM images WHERE id=? AND property_id=?`, imageID, propertyID); err != nil {
		return nil, notFound(err, "no such image")
	}
	if _, err := q.ExecContext(ctx, `UPDATE images SET is_cover_image = (id = ?) WHERE property_id=?`, imageID, propertyID); err != nil {
		return nil, err
	}
	row.IsCoverImage = true
	img := row.toDomain()
	return &img, nil
}

func (r *ImageRepository) DeleteByKey(ctx context.Context, propertyID int64, key string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM images WHERE property_id=? AND image_key=?`, propertyID, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("no such image: %s", key)
	}
	return nil
}

var _ repository.ImageRepository = (*ImageRepository)(nil)
