package models

// CreateTaskRequest represents the request body for creating a task. The
// owner is always server-assigned from the authenticated user; any owner
// value in the payload is ignored.
type CreateTaskRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   bool   `json:"completed"`
}
