package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/Domenick1991/sejour/internal/repository"
	"github.com/jmoiron/sqlx"
)

type messageRow struct {
	ID     int64         `db:"id"`
	FromID int64         `db:"from_id"`
	ToID   int64         `db:"to_id"`
	Body   string        `db:"body"`
	SentAt int64         `db:"sent_at"`
	ReadAt sql.NullInt64 `db:"read_at"`
}

type mailboxRow struct {
	ID        int64         `db:"id"`
	Body      string        `db:"body"`
	SentAt    int64         `db:"sent_at"`
	ReadAt    sql.NullInt64 `db:"read_at"`
	UserID    int64         `db:"user_id"`
	FirstName string        `db:"first_name"`
	LastName  string        `db:"last_name"`
	Avatar    string        `db:"avatar"`
}

type detailRow struct {
	ID            int64         `db:"id"`
	Body          string        `db:"body"`
	SentAt        int64         `db:"sent_at"`
	ReadAt        sql.NullInt64 `db:"read_at"`
	FromID        int64         `db:"from_id"`
	FromFirstName string        `db:"from_first_name"`
	FromLastName  string        `db:"from_last_name"`
	FromAvatar    string        `db:"from_avatar"`
	ToID          int64         `db:"to_id"`
	ToFirstName   string        `db:"to_first_name"`
	ToLastName    string        `db:"to_last_name"`
	ToAvatar      string        `db:"to_avatar"`
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMicros(v.Int64)
	return &t
}

type MessageRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db, now: time.Now}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	sentAt := r.now()
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO messages(from_id, to_id, body, sent_at) VALUES(?,?,?,?)`,
		m.FromID, m.ToID, m.Body, toMicros(sentAt))
	if isConstraint(err, "FOREIGN KEY") {
		return apperror.NotFound("no such user: %d", m.ToID)
	}
	if err != nil {
		return err
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	m.SentAt = fromMicros(toMicros(sentAt))
	m.ReadAt = nil
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*domain.MessageDetail, error) {
	var row detailRow
	err := conn(ctx, r.db).GetContext(ctx, &row, `SELECT m.id, m.body, m.sent_at, m.read_at,
			f.id AS from_id, f.first_name AS from_first_name, f.last_name AS from_last_name, f.avatar AS from_avatar,
			t.id AS to_id, t.first_name AS to_first_name, t.last_name AS to_last_name, t.avatar AS to_avatar
		FROM messages m
		JOIN users f ON f.id = m.from_id
		JOIN users t ON t.id = m.to_id
		WHERE m.id = ?`, id)
	if err != nil {
		return nil, notFound(err, "no such message")
	}
	return &domain.MessageDetail{
		ID:       row.ID,
		FromUser: domain.UserRef{ID: row.FromID, FirstName: row.FromFirstName, LastName: row.FromLastName, Avatar: row.FromAvatar},
		ToUser:   domain.UserRef{ID: row.ToID, FirstName: row.ToFirstName, LastName: row.ToLastName, Avatar: row.ToAvatar},
		Body:     row.Body,
		SentAt:   fromMicros(row.SentAt),
		ReadAt:   nullTime(row.ReadAt),
	}, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id int64) (*domain.Message, error) {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx, `UPDATE messages SET read_at = COALESCE(read_at, ?) WHERE id=?`, toMicros(r.now()), id); err != nil {
		return nil, err
	}

	var row messageRow
	if err := q.GetContext(ctx, &row, `SELECT id, from_id, to_id, body, sent_at, read_at FROM messages WHERE id=?`, id); err != nil {
		return nil, notFound(err, "no such message")
	}
	return &domain.Message{
		ID:     row.ID,
		FromID: row.FromID,
		ToID:   row.ToID,
		Body:   row.Body,
		SentAt: fromMicros(row.SentAt),
		ReadAt: nullTime(row.ReadAt),
	}, nil
}

func (r *MessageRepository) ListTo(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return r.list(ctx, `SELECT m.id, m.body, m.sent_at, m.read_at, u.id AS user_id, u.first_name, u.last_name, u.avatar
		FROM messages m JOIN users u ON u.id = m.from_id
		WHERE m.to_id = ?
		ORDER BY m.sent_at DESC, m.id DESC`, userID)
}

func (r *MessageRepository) ListFrom(ctx context.Context, userID int64) ([]domain.UserMessage, error) {
	return r.list(ctx, `SELECT m.id, m.body, m.sent_at, m.read_at, u.id AS user_id, u.first_name, u.last_name, u.avatar
		FROM messages m JOIN users u ON u.id = m.to_id
		WHERE m.from_id = ?
		ORDER BY m.sent_at DESC, m.id DESC`, userID)
}

func (r *MessageRepository) list(ctx context.Context, query string, userID int64) ([]domain.UserMessage, error) {
	var rows []mailboxRow
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	out := make([]domain.UserMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.UserMessage{
			ID:     row.ID,
			Peer:   domain.UserRef{ID: row.UserID, FirstName: row.FirstName, LastName: row.LastName, Avatar: row.Avatar},
			Body:   row.Body,
			SentAt: fromMicros(row.SentAt),
			ReadAt: nullTime(row.ReadAt),
		})
	}
	return out, nil
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
