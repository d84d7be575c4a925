// Package repo
//
// This file persists idempotency records with GORM. A record stores the
// status and body of a completed POST under (scope, key) until it expires.
// Uniqueness is enforced by the database, so two racing requests with the
// same key cannot both record.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (scope, key) pair.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("scope = ? AND key = ? AND expires_at > ?", scope, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores a completed response and returns ErrDuplicate on
// unique violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, resourceID string, status int, body []byte, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		Scope:      scope,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		Body:       body,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite reports UNIQUE violations as plain text.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") ||
			strings.Contains(low, "duplicate key value") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// IdempotencyStore binds the idempotency table to a database and a record
// lifetime for the HTTP layer.
type IdempotencyStore struct {
	DB *gorm.DB
	// TTL is how long a recorded response can be replayed.
	TTL time.Duration
}

// Exists reports whether a live record exists for (scope, key).
func (s IdempotencyStore) Exists(ctx context.Context, scope, key string, now time.Time) (bool, error) {
	_, err := GetIdempotency(ctx, s.DB, scope, key, now)
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get returns the live record for (scope, key) or ErrNotFound.
func (s IdempotencyStore) Get(ctx context.Context, scope, key string) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, scope, key, time.Now().UTC())
}

// Put records a completed response. A concurrent request that already
// recorded the same (scope, key) wins; Put then reports success.
func (s IdempotencyStore) Put(ctx context.Context, scope, key, resourceID string, status int, body []byte) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err := CreateIdempotency(ctx, s.DB, scope, key, resourceID, status, body, ttl)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}
