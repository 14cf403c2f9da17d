package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskly-be/internal/entities"
)

// ListOptions controls filtering, ordering and pagination for task listings.
// A nil Completed means no completion filter. OrderBy must be one of the
// allow-listed column names; an empty value falls back to created_at
// ascending. Limit and Skip are unbounded when negative.
type ListOptions struct {
	Completed *bool
	OrderBy   string
	Desc      bool
	Limit     int
	Skip      int
}

// SortColumns maps the external sort field names to their columns. Fields
// outside this map are ignored by the service layer.
var SortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// TaskRepository defines the interface for task database operations. Every
// read and write is scoped by owner: a task id belonging to another user is
// indistinguishable from an id that does not exist.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*entities.Task, error)
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) (*entities.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*entities.Task, error)
}

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = "id, description, completed, owner_id, created_at, updated_at"

func scanTask(row *sql.Row) (*entities.Task, error) {
	var task entities.Task
	err := row.Scan(
		&task.ID,
		&task.Description,
		&task.Completed,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &task, nil
}

// Create inserts a new task with the server-assigned owner
func (r *taskRepository) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	query := `
		INSERT INTO tasks (description, completed, owner_id)
		VALUES ($1, $2, $3)
		RETURNING ` + taskColumns

	created, err := scanTask(r.db.QueryRowContext(ctx, query, task.Description, task.Completed, task.OwnerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// FindByIDAndOwner finds a task scoped to (id, owner)
func (r *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// ListByOwner returns the owner's tasks with optional filter, sort and
// pagination applied in SQL
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*entities.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if opts.Completed != nil {
		args = append(args, *opts.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	// OrderBy comes from the SortColumns allow-list, never from raw input.
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	direction := "ASC"
	if opts.Desc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, direction)

	if opts.Limit >= 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*entities.Task{}
	for rows.Next() {
		var task entities.Task
		if err := rows.Scan(
			&task.ID,
			&task.Description,
			&task.Completed,
			&task.OwnerID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

// Update persists the task's mutable fields, scoped to (id, owner)
func (r *taskRepository) Update(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	query := `
		UPDATE tasks
		SET description = $3, completed = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns

	return scanTask(r.db.QueryRowContext(ctx, query, task.ID, task.OwnerID, task.Description, task.Completed))
}

// DeleteByIDAndOwner removes a task scoped to (id, owner) and returns it
func (r *taskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
}
