package repository

import (
	"context"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGImageRepository struct {
	db *pgxpool.Pool
}

func NewImageRepository(db *pgxpool.Pool) ImageRepository {
	return &PGImageRepository{db: db}
}

func (r *PGImageRepository) Create(ctx context.Context, img *domain.Image) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO images (image_key, property_id, is_cover_image)
		VALUES ($1, $2, $3)
		RETURNING id`, img.ImageKey, img.PropertyID, img.IsCoverImage).Scan(&img.ID)
	switch pgCode(err) {
	case pgForeignKeyViolation:
		return apperror.NotFound("no such property: %d", img.PropertyID)
	case pgUniqueViolation:
		return apperror.BadRequest("image %s already exists", img.ImageKey)
	}
	return err
}

func (r *PGImageRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Image, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, image_key, property_id, is_cover_image FROM images WHERE property_id=$1 ORDER BY image_key`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := make([]domain.Image, 0)
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ImageKey, &img.PropertyID, &img.IsCoverImage); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// SetCover marks imageID as the cover and clears the flag on every other
// image of the property. Callers wrap it in a transaction.
func (r *PGImageRepository) SetCover(ctx context.Context, propertyID, imageID int64) (*domain.Image, error) {
	db := conn(ctx, r.db)
	if _, err := db.Exec(ctx, `UPDATE images SET is_cover_image = FALSE WHERE property_id=$1 AND id <> $2`, propertyID, imageID); err != nil {
		return nil, err
	}

	var img domain.Image
	err := db.QueryRow(ctx, `UPDATE images SET is_cover_image = TRUE WHERE id=$1 AND property_id=$2
		RETURNING id, image_key, property_id, is_cover_image`, imageID, propertyID).
		Scan(&img.ID, &img.ImageKey, &img.PropertyID, &img.IsCoverImage)
	if err != nil {
		return nil, notFound(err, "no such image")
	}
	return &img, nil
}

func (r *PGImageRepository) DeleteByKey(ctx context.Context, propertyID int64, key string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM images WHERE property_id=$1 AND image_key=$2`, propertyID, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperror.NotFound("no such image: %s", key)
	}
	return nil
}

var _ ImageRepository = (*PGImageRepository)(nil)
