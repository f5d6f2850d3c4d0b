package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGPropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) PropertyRepository {
	return &PGPropertyRepository{db: db}
}

func (r *PGPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO properties (title, street, city, state, zipcode, latitude, longitude, description, price, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`, p.Title, p.Street, p.City, p.State, p.Zipcode, p.Latitude, p.Longitude, p.Description, p.Price, p.OwnerID).Scan(&p.ID)
	if pgCode(err) == pgForeignKeyViolation {
		return apperror.NotFound("no such user: %d", p.OwnerID)
	}
	return err
}

// Search lists non-archived properties matching filter together with the
// total match count. Each row carries its cover image key, falling back to
// the first key in order.
func (r *PGPropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.PropertySummary, int, error) {
	where := []string{"p.archived = FALSE"}
	var args []any
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where = append(where, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where = append(where, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if filter.Description != "" {
		args = append(args, ContainsPattern(filter.Description))
		where = append(where, fmt.Sprintf(`(p.title ILIKE $%[1]d ESCAPE '\' OR p.description ILIKE $%[1]d ESCAPE '\')`, len(args)))
	}
	cond := strings.Join(where, " AND ")

	db := conn(ctx, r.db)
	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM properties p WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset())
	rows, err := db.Query(ctx, fmt.Sprintf(`SELECT p.id, p.title, p.street, p.city, p.state, p.zipcode, p.latitude, p.longitude, p.description, p.price, p.owner_id,
			COALESCE((SELECT i.image_key FROM images i WHERE i.property_id = p.id ORDER BY i.is_cover_image DESC, i.image_key LIMIT 1), '')
		FROM properties p
		WHERE %s
		ORDER BY p.id
		LIMIT $%d OFFSET $%d`, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]domain.PropertySummary, 0)
	for rows.Next() {
		var s domain.PropertySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Street, &s.City, &s.State, &s.Zipcode, &s.Latitude, &s.Longitude, &s.Description, &s.Price, &s.OwnerID, &s.ImageKey); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// Get returns the property with its images ordered by key. Archived
// properties are still returned.
func (r *PGPropertyRepository) Get(ctx context.Context, id int64) (*domain.Property, error) {
	db := conn(ctx, r.db)
	row := db.QueryRow(ctx, `SELECT id, title, street, city, state, zipcode, latitude, longitude, description, price, owner_id, archived FROM properties WHERE id=$1`, id)
	var p domain.Property
	if err := row.Scan(&p.ID, &p.Title, &p.Street, &p.City, &p.State, &p.Zipcode, &p.Latitude, &p.Longitude, &p.Description, &p.Price, &p.OwnerID, &p.Archived); err != nil {
		return nil, notFound(err, fmt.Sprintf("no such property: %d", id))
	}

	images, err := NewImageRepository(r.db).ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].PropertyID = 0
	}
	p.Images = images
	return &p, nil
}

func (r *PGPropertyRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT owner_id FROM properties WHERE id=$1`, id).Scan(&ownerID); err != nil {
		return 0, notFound(err, fmt.Sprintf("no such property: %d", id))
	}
	return ownerID, nil
}

func (r *PGPropertyRepository) Update(ctx context.Context, u domain.PropertyUpdate) (*domain.Property, error) {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE properties SET title=$1, description=$2, price=$3 WHERE id=$4`, u.Title, u.Description, u.Price, u.ID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, apperror.NotFound("no such property: %d", u.ID)
	}
	return r.Get(ctx, u.ID)
}

func (r *PGPropertyRepository) Archive(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE properties SET archived = TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperror.NotFound("no such property: %d", id)
	}
	return nil
}

var _ PropertyRepository = (*PGPropertyRepository)(nil)
