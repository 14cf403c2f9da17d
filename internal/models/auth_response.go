package models

import "taskly-be/internal/entities"

// AuthResponse is returned by signup and login: the user plus the session
// token issued for this device. The user's serialization already excludes
// the password hash, token collection and avatar payload.
type AuthResponse struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}
