package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt    time.Time `json:"updated_at"` //nolint:tagliatelle
}

type AccessToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"` //nolint:tagliatelle
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"` //nolint:tagliatelle
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
}

func (t AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
