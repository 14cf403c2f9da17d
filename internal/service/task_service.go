package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taskly-be/internal/entities"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

// TaskListQuery carries the raw list query parameters. Parsing is lenient:
// non-numeric pagination values mean "no bound" and unknown sort fields are
// ignored rather than rejected.
type TaskListQuery struct {
	Completed string // "" means no filter
	SortBy    string // "field:asc" or "field:desc"
	Limit     string
	Skip      string
}

// TaskService defines the interface for task business logic. Every operation
// is parameterized by the authenticated owner and never reaches another
// user's tasks.
type TaskService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateTaskRequest) (*entities.Task, error)
	List(ctx context.Context, ownerID string, query TaskListQuery) ([]*entities.Task, error)
	Get(ctx context.Context, id, ownerID string) (*entities.Task, error)
	Update(ctx context.Context, id, ownerID string, upd *models.TaskUpdate) (*entities.Task, error)
	Delete(ctx context.Context, id, ownerID string) (*entities.Task, error)
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// Create stores a new task owned by the authenticated user. The owner is
// server-assigned; whatever the caller put in the payload cannot change it.
func (s *taskService) Create(ctx context.Context, ownerID string, req *models.CreateTaskRequest) (*entities.Task, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalidField("description", "is required")
	}

	return s.repo.Create(ctx, &entities.Task{
		Description: description,
		Completed:   req.Completed,
		OwnerID:     ownerID,
	})
}

// List returns the owner's tasks with optional completion filter, sort and
// pagination
func (s *taskService) List(ctx context.Context, ownerID string, query TaskListQuery) ([]*entities.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID, parseListOptions(query))
}

func (s *taskService) Get(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return s.repo.FindByIDAndOwner(ctx, id, ownerID)
}

// Update applies an allow-listed partial update to a task scoped to
// (id, owner)
func (s *taskService) Update(ctx context.Context, id, ownerID string, upd *models.TaskUpdate) (*entities.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}

	task, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Description != nil {
		description := strings.TrimSpace(*upd.Description)
		if description == "" {
			return nil, invalidField("description", "is required")
		}
		task.Description = description
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	return s.repo.Update(ctx, task)
}

func (s *taskService) Delete(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}
	return s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
}

// parseListOptions translates raw query values into repository options.
// An absent completed parameter means all tasks; completed=true filters
// completed ones and any other present value filters uncompleted ones.
func parseListOptions(query TaskListQuery) repository.ListOptions {
	opts := repository.ListOptions{Limit: -1, Skip: -1}

	if query.Completed != "" {
		completed := query.Completed == "true"
		opts.Completed = &completed
	}

	if query.SortBy != "" {
		parts := strings.SplitN(query.SortBy, ":", 2)
		if column, ok := repository.SortColumns[parts[0]]; ok {
			opts.OrderBy = column
			opts.Desc = len(parts) == 2 && parts[1] == "desc"
		}
	}

	// limit=0 means unbounded, like an absent or non-numeric value.
	if limit, err := strconv.Atoi(query.Limit); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if skip, err := strconv.Atoi(query.Skip); err == nil && skip > 0 {
		opts.Skip = skip
	}

	return opts
}
