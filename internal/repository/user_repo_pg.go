package repository

import (
	"context"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = apperror.BadRequest("email already registered")

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) Create(ctx context.Context, u *domain.User) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO users (email, password, first_name, last_name, avatar, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Avatar, u.IsAdmin).Scan(&u.ID)
	if pgCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

const userColumns = `id, email, password, first_name, last_name, avatar, is_admin`

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Avatar, &u.IsAdmin); err != nil {
		return nil, notFound(err, "no such user")
	}
	return &u, nil
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Avatar, &u.IsAdmin); err != nil {
		return nil, notFound(err, "no such user")
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
