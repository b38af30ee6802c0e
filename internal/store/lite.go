package store

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rodeo-drive-api/internal/model"
)

// Lite is the SQLite store used when no DATABASE_URL is configured, and by
// tests.
type Lite struct {
	db *gorm.DB
}

// OpenLite opens (or creates) the SQLite file at dsn and migrates it.
func OpenLite(dsn string) (*Lite, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.RefreshToken{}, &model.Appointment{}, &model.Message{}); err != nil {
		return nil, err
	}
	log.Printf("database: using SQLite %s", dsn)
	return &Lite{db: db}, nil
}

func (s *Lite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func liteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrDuplicate
	}
	return err
}

func (s *Lite) CreateUser(ctx context.Context, u *model.User) error {
	return liteErr(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Lite) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(u).Error; err != nil {
		return nil, liteErr(err)
	}
	return u, nil
}

func (s *Lite) UserByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(u).Error; err != nil {
		return nil, liteErr(err)
	}
	return u, nil
}

func (s *Lite) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return liteErr(s.db.WithContext(ctx).Create(a).Error)
}

func (s *Lite) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, liteErr(err)
}

func (s *Lite) AppointmentsSince(ctx context.Context, since time.Time) ([]model.Appointment, error) {
	var out []model.Appointment
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&out).Error
	return out, liteErr(err)
}

func (s *Lite) CreateMessage(ctx context.Context, m *model.Message) error {
	return liteErr(s.db.WithContext(ctx).Create(m).Error)
}

func (s *Lite) ListMessages(ctx context.Context) ([]model.Message, error) {
	var out []model.Message
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, liteErr(err)
}

func (s *Lite) UnrepliedMessages(ctx context.Context) ([]model.Message, error) {
	var out []model.Message
	err := s.db.WithContext(ctx).Where("reply IS NULL").Order("created_at ASC").Find(&out).Error
	return out, liteErr(err)
}

func (s *Lite) ReplyMessage(ctx context.Context, id, reply string) (*model.Message, error) {
	res := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{"reply": reply, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, liteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	m := &model.Message{}
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(m).Error; err != nil {
		return nil, liteErr(err)
	}
	return m, nil
}

func (s *Lite) CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	rt := &model.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(rt).Error; err != nil {
		return "", liteErr(err)
	}
	return rt.ID, nil
}

func (s *Lite) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	rt := &model.RefreshToken{}
	if err := s.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(rt).Error; err != nil {
		return nil, liteErr(err)
	}
	return rt, nil
}

func (s *Lite) RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.RefreshToken{}).
			Where("id = ? AND revoked = ?", oldID, false).
			Updates(map[string]any{"revoked": true, "replaced_by": newID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRevoked
		}
		return tx.Create(&model.RefreshToken{
			ID:        newID,
			UserID:    userID,
			TokenHash: newHash,
			ExpiresAt: newExpiry,
		}).Error
	})
}

func (s *Lite) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
