package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/jmoiron/sqlx"
)

type bookingRow struct {
	ID         int64 `db:"id"`
	StartDate  int64 `db:"start_date"`
	EndDate    int64 `db:"end_date"`
	PropertyID int64 `db:"property_id"`
	GuestID    int64 `db:"guest_id"`
}

func (r bookingRow) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:         r.ID,
		StartDate:  fromMicros(r.StartDate),
		EndDate:    fromMicros(r.EndDate),
		PropertyID: r.PropertyID,
		GuestID:    r.GuestID,
	}
}

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// LockProperty is a no-op: the single connection already serializes
// transactions.
func (r *BookingRepository) LockProperty(context.Context, int64) error {
	return nil
}

func (r *BookingRepository) FindOverlap(ctx context.Context, propertyID int64, start, end time.Time) (*domain.Booking, error) {
	var row bookingRow
	err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT id, start_date, end_date, property_id, guest_id FROM bookings
		WHERE property_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY id
		LIMIT 1`, propertyID, toMicros(end), toMicros(start))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO bookings(start_date, end_date, property_id, guest_id) VALUES(?,?,?,?)`,
		toMicros(b.StartDate), toMicros(b.EndDate), b.PropertyID, b.GuestID)
	if isConstraint(err, "FOREIGN KEY") {
		return apperror.NotFound("no such property: %d", b.PropertyID)
	}
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var row bookingRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT id, start_date, end_date, property_id, guest_id FROM bookings WHERE id=?`, id); err != nil {
		return nil, notFound(err, "no such booking")
	}
	return row.toDomain(), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("no such booking: %d", id)
	}
	return nil
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
