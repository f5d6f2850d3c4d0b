package repository

import (
	"context"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGMessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &PGMessageRepository{db: db}
}

func (r *PGMessageRepository) Create(ctx context.Context, m *domain.Message) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO messages (from_id, to_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, sent_at, read_at`, m.FromID, m.ToID, m.Body).Scan(&m.ID, &m.SentAt, &m.ReadAt)
	if pgCode(err) == pgForeignKeyViolation {
		return apperror.NotFound("no such user: %d", m.ToID)
	}
	return err
}

func (r *PGMessageRepository) GetByID(ctx context.Context, id int64) (*domain.MessageDetail, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT m.id, m.body, m.sent_at, m.read_at,
			f.id, f.first_name, f.last_name, f.avatar,
			t.id, t.first_name, t.last_name, t.avatar
		FROM messages m
		JOIN users f ON f.id = m.from_id
		JOIN users t ON t.id = m.to_id
		WHERE m.id = $1`, id)
	var d domain.MessageDetail
	if err := row.Scan(&d.ID, &d.Body, &d.SentAt, &d.ReadAt,
		&d.FromUser.ID, &d.FromUser.FirstName, &d.FromUser.LastName, &d.FromUser.Avatar,
		&d.ToUser.ID, &d.ToUser.FirstName, &d.ToUser.LastName, &d.ToUser.Avatar); err != nil {
		return nil, notFound(err, "no such message")
	}
	return &d, nil
}

// MarkRead stamps read_at once; repeated calls keep the first timestamp.
func (r *PGMessageRepository) MarkRead(ctx context.Context, id int64) (*domain.Message, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `UPDATE messages SET read_at = COALESCE(read_at, now()) WHERE id=$1
		RETURNING id, from_id, to_id, body, sent_at, read_at`, id)
	var m domain.Message
	if err := row.Scan(&m.ID, &m.FromID, &m.ToID, &m.Body, &m.SentAt, &m.ReadAt); err != nil {
		return nil, notFound(err, "no such message")
	}
	return &m, nil
}

func (r *PGMessageRepository) ListTo(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return r.list(ctx, `SELECT m.id, m.body, m.sent_at, m.read_at, u.id, u.first_name, u.last_name, u.avatar
		FROM messages m JOIN users u ON u.id = m.from_id
		WHERE m.to_id = $1
		ORDER BY m.sent_at DESC, m.id DESC`, userID)
}

func (r *PGMessageRepository) ListFrom(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return r.list(ctx, `SELECT m.id, m.body, m.sent_at, m.read_at, u.id, u.first_name, u.last_name, u.avatar
		FROM messages m JOIN users u ON u.id = m.to_id
		WHERE m.from_id = $1
		ORDER BY m.sent_at DESC, m.id DESC`, userID)
}

func (r *PGMessageRepository) list(ctx context.Context, query string, userID int64) ([]domain.UserMessage, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.UserMessage, 0)
	for rows.Next() {
		var m domain.UserMessage
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt, &m.Peer.ID, &m.Peer.FirstName, &m.Peer.LastName, &m.Peer.Avatar); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

var _ MessageRepository = (*PGMessageRepository)(nil)
