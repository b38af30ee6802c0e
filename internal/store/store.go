package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rodeo-drive-api/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrRevoked means the refresh token was revoked before it could be
	// rotated.
	ErrRevoked = errors.New("refresh token revoked")
)

// Repository is what the handlers need from storage. PG backs it with
// Postgres, Lite with SQLite through gorm.
type Repository interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)

	CreateAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	AppointmentsSince(ctx context.Context, since time.Time) ([]model.Appointment, error)

	CreateMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context) ([]model.Message, error)
	ReplyMessage(ctx context.Context, id, reply string) (*model.Message, error)
	UnrepliedMessages(ctx context.Context) ([]model.Message, error)

	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

// PG is the Postgres store.
type PG struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// Migrate runs a schema script. Statements are idempotent.
func (s *PG) Migrate(ctx context.Context, script string) error {
	_, err := s.pool.Exec(ctx, script)
	return err
}

// pgErr maps driver errors onto the package sentinels.
func pgErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) && pe.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

var (
	_ Repository = (*PG)(nil)
	_ Repository = (*Lite)(nil)
)
