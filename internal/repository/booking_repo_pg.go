package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// LockProperty takes a transaction-scoped advisory lock keyed by the
// property id. Outside a transaction the lock would be released at once.
func (r *PGBookingRepository) LockProperty(ctx context.Context, propertyID int64) error {
	_, err := conn(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, propertyID)
	return err
}

func (r *PGBookingRepository) FindOverlap(ctx context.Context, propertyID int64, start, end time.Time) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT id, start_date, end_date, property_id, guest_id FROM bookings
		WHERE property_id = $1
		AND tstzrange(start_date, end_date, '[]') && tstzrange($2, $3, '[]')
		ORDER BY id
		LIMIT 1`, propertyID, start, end)

	var b domain.Booking
	if err := row.Scan(&b.ID, &b.StartDate, &b.EndDate, &b.PropertyID, &b.GuestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO bookings (start_date, end_date, property_id, guest_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, booking.StartDate, booking.EndDate, booking.PropertyID, booking.GuestID).Scan(&booking.ID)
	switch pgCode(err) {
	case "":
		return err
	case pgExclusionViolation:
		return ErrBookingOverlap
	case pgForeignKeyViolation:
		return apperror.NotFound("no such property: %d", booking.PropertyID)
	default:
		return err
	}
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT id, start_date, end_date, property_id, guest_id FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.StartDate, &b.EndDate, &b.PropertyID, &b.GuestID); err != nil {
		return nil, notFound(err, "no such booking")
	}
	return &b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperror.NotFound("no such booking: %d", id)
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
