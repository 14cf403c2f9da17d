package entities

import "time"

// User represents a user account in the database.
// The password hash, session tokens and the avatar blob are never part of
// the JSON serialization; the avatar is served by a dedicated route.
type User struct {
	ID           string    `json:"id"` // UUID
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
