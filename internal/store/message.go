package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rodeo-drive-api/internal/model"
)

const messageCols = `id, content, reply, author_email, created_at, updated_at`

func (s *PG) CreateMessage(ctx context.Context, m *model.Message) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, content, author_email)
		 VALUES ($1,$2,$3)
		 RETURNING created_at, updated_at`,
		m.ID, m.Content, m.AuthorEmail,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return pgErr(err)
}

func (s *PG) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageCols+` FROM messages ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

func (s *PG) UnrepliedMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageCols+` FROM messages WHERE reply IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// ReplyMessage sets the reply in place and returns the updated row.
func (s *PG) ReplyMessage(ctx context.Context, id, reply string) (*model.Message, error) {
	m := &model.Message{}
	err := s.pool.QueryRow(ctx,
		`UPDATE messages SET reply = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+messageCols, reply, id,
	).Scan(&m.ID, &m.Content, &m.Reply, &m.AuthorEmail, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, pgErr(err)
	}
	return m, nil
}

func scanMessages(rows pgx.Rows) ([]model.Message, error) {
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.Reply, &m.AuthorEmail, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
