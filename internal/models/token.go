package models

import "time"

// RefreshSession represents a refresh token session held in Redis. The
// session lives until its TTL expires or the token is revoked at logout.
type RefreshSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
