package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/student-mgmt-api/internal/models"
)

// ErrTokenNotFound is returned when a refresh session is absent or expired.
var ErrTokenNotFound = fmt.Errorf("refresh token not found")

// TokenRepository stores refresh token sessions in Redis. Expiry is enforced
// by the key TTL; revocation deletes the key.
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository constructs a token repository.
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

func tokenKey(token string) string {
	return "refresh:" + token
}

// Save persists a refresh session until it expires.
func (r *TokenRepository) Save(ctx context.Context, session *models.RefreshSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh session already expired")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal refresh session: %w", err)
	}
	if err := r.client.Set(ctx, tokenKey(session.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh session: %w", err)
	}
	return nil
}

// Find returns the session for the given token.
func (r *TokenRepository) Find(ctx context.Context, token string) (*models.RefreshSession, error) {
	raw, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("load refresh session: %w", err)
	}
	var session models.RefreshSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal refresh session: %w", err)
	}
	return &session, nil
}

// Revoke deletes the session, invalidating the token.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}
