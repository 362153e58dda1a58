package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmroute-backend/internal/models"

	"github.com/jmoiron/sqlx"
)

// UserStore holds user accounts and their device tokens
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a store on db
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// GetUserByEmail returns the user with email, or ErrNotFound
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, email, password, name, role, created_at, updated_at FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByID returns the user with id, or ErrNotFound
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, email, password, name, role, created_at, updated_at FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpsertFCMToken registers token for userID, moving it over if another user
// held it before
func (s *UserStore) UpsertFCMToken(ctx context.Context, userID, token, deviceType string) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT(token) DO UPDATE SET
			user_id = excluded.user_id,
			device_type = excluded.device_type,
			updated_at = excluded.updated_at`,
		userID, token, deviceType, now, now)
	if err != nil {
		return fmt.Errorf("failed to register FCM token: %w", err)
	}
	return nil
}

// GetFCMTokens returns every device token registered for userID, newest first
func (s *UserStore) GetFCMTokens(ctx context.Context, userID string) ([]string, error) {
	tokens := []string{}
	err := s.db.SelectContext(ctx, &tokens,
		`SELECT token FROM fcm_tokens WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get FCM tokens: %w", err)
	}
	return tokens, nil
}
