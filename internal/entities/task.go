package entities

import "time"

// Task represents a task owned by exactly one user.
type Task struct {
	ID          string    `json:"id"` // UUID
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner"` // UUID of the owning user
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
