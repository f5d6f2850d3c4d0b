package sqlite

import (
	"context"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID        int64  `db:"id"`
	Email     string `db:"email"`
	Password  string `db:"password"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Avatar    string `db:"avatar"`
	IsAdmin   bool   `db:"is_admin"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.Password,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Avatar:       r.Avatar,
		IsAdmin:      r.IsAdmin,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO users(email, password, first_name, last_name, avatar, is_admin) VALUES(?,?,?,?,?,?)`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Avatar, u.IsAdmin)
	if isConstraint(err, "UNIQUE") {
		return repository.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT id, email, password, first_name, last_name, avatar, is_admin FROM users WHERE id=?`, id); err != nil {
		return nil, notFound(err, "no such user")
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT id, email, password, first_name, last_name, avatar, is_admin FROM users WHERE email=?`, email); err != nil {
		return nil, notFound(err, "no such user")
	}
	return row.toDomain(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
