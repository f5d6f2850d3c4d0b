package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
)

const minPasswordLength = 5

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Avatar    string
}

type UserService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int) *UserService {
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register stores a new non-admin user and returns a token for it.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperror.BadRequest("invalid email")
	}
	if len(input.Password) < minPasswordLength {
		return "", apperror.BadRequest("password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return "", apperror.BadRequest("first and last name are required")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Avatar:       input.Avatar,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return "", apperror.BadRequest("duplicate email: %s", email)
		}
		return "", err
	}
	return s.tokens.Issue(u)
}

// Login never tells an unknown email apart from a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("invalid email/password")
		}
		return "", err
	}

	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperror.Unauthorized("invalid email/password")
	}
	return s.tokens.Issue(u)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

var _ UserUseCase = (*UserService)(nil)
