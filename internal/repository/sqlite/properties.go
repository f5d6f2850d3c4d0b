package sqlite

import (
	"context"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/jmoiron/sqlx"
)

type propertyRow struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Street      string `db:"street"`
	City        string `db:"city"`
	State       string `db:"state"`
	Zipcode     string `db:"zipcode"`
	Latitude    string `db:"latitude"`
	Longitude   string `db:"longitude"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
	OwnerID     int64  `db:"owner_id"`
	Archived    bool   `db:"archived"`
	ImageKey    string `db:"image_key"`
}

type PropertyRepository struct {
	db *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO properties(title, street, city, state, zipcode, latitude, longitude, description, price, owner_id)
		VALUES(?,?,?,?,?,?,?,?,?,?)`, p.Title, p.Street, p.City, p.State, p.Zipcode, p.Latitude, p.Longitude, p.Description, p.Price, p.OwnerID)
	if isConstraint(err, "FOREIGN KEY") {
		return apperror.NotFound("no such user: %d", p.OwnerID)
	}
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *PropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.PropertySummary, int, error) {
	where := []string{"p.archived = 0"}
	var args []any
	if filter.MinPrice != nil {
		where = append(where, "p.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where = append(where, "p.price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.Description != "" {
		where = append(where, `(p.title LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\')`)
		like := repository.ContainsPattern(filter.Description)
		args = append(args, like, like)
	}
	cond := strings.Join(where, " AND ")

	q := conn(ctx, r.db)
	var total int
	if err := q.GetContext(ctx, &total, `SELECT count(*) FROM properties p WHERE `+cond, args...); err != nil {
		return nil, 0, err
	}

	var rows []propertyRow
	err := q.SelectContext(ctx, &rows, `SELECT p.id, p.title, p.street, p.city, p.state, p.zipcode, p.latitude, p.longitude, p.description, p.price, p.owner_id, p.archived,
			COALESCE((SELECT i.image_key FROM images i WHERE i.property_id = p.id ORDER BY i.is_cover_image DESC, i.image_key LIMIT 1), '') AS image_key
		FROM properties p
		WHERE `+cond+`
		ORDER BY p.id
		LIMIT ? OFFSET ?`, append(args, filter.Limit, filter.Offset())...)
	if err != nil {
		return nil, 0, err
	}

	list := make([]domain.PropertySummary, 0, len(rows))
	for _, row := range rows {
		list = append(list, domain.PropertySummary{
			ID:          row.ID,
			Title:       row.Title,
			Street:      row.Street,
			City:        row.City,
			State:       row.State,
			Zipcode:     row.Zipcode,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Description: row.Description,
			Price:       row.Price,
			OwnerID:     row.OwnerID,
			ImageKey:    row.ImageKey,
		})
	}
	return list, total, nil
}

func (r *PropertyRepository) Get(ctx context.Context, id int64) (*domain.Property, error) {
	var row propertyRow
	err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT id, title, street, city, state, zipcode, latitude, longitude, description, price, owner_id, archived
		FROM properties WHERE id=?`, id)
	if err != nil {
		return nil, notFound(err, "no such property")
	}

	images, err := NewImageRepository(r.db).ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range images {
		images[i].PropertyID = 0
	}

	return &domain.Property{
		ID:          row.ID,
		Title:       row.Title,
		Street:      row.Street,
		City:        row.City,
		State:       row.State,
		Zipcode:     row.Zipcode,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		Description: row.Description,
		Price:       row.Price,
		OwnerID:     row.OwnerID,
		Archived:    row.Archived,
		Images:      images,
	}, nil
}

func (r *PropertyRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	if err := conn(ctx, r.db).GetContext(ctx, &ownerID, `SELECT owner_id FROM properties WHERE id=?`, id); err != nil {
		return 0, notFound(err, "no such property")
	}
	return ownerID, nil
}

func (r *PropertyRepository) Update(ctx context.Context, u domain.PropertyUpdate) (*domain.Property, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE properties SET title=?, description=?, price=? WHERE id=?`, u.Title, u.Description, u.Price, u.ID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, apperror.NotFound("no such property: %d", u.ID)
	}
	return r.Get(ctx, u.ID)
}

func (r *PropertyRepository) Archive(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE properties SET archived = 1 WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("no such property: %d", id)
	}
	return nil
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)
