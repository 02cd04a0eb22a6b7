package domain

import "time"

// User models a registered account. PasswordHash and RefreshToken are
// secrets: they never serialize to JSON, and default repository reads omit
// them entirely. Only the WithSecrets lookups populate them.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
