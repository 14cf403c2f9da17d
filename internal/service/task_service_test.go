package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskly-be/internal/entities"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

// fakeTaskRepo is an in-memory TaskRepository that records the list options
// it was called with.
type fakeTaskRepo struct {
	tasks    map[string]*entities.Task
	lastOpts repository.ListOptions
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*entities.Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *entities.Task) (*entities.Task, error) {
	created := *task
	created.ID = uuid.NewString()
	f.tasks[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeTaskRepo) FindByIDAndOwner(_ context.Context, id, ownerID string) (*entities.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) ListByOwner(_ context.Context, ownerID string, opts repository.ListOptions) ([]*entities.Task, error) {
	f.lastOpts = opts
	result := []*entities.Task{}
	for _, task := range f.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		copied := *task
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *entities.Task) (*entities.Task, error) {
	stored, ok := f.tasks[task.ID]
	if !ok || stored.OwnerID != task.OwnerID {
		return nil, repository.ErrNotFound
	}
	stored.Description = task.Description
	stored.Completed = task.Completed
	copied := *stored
	return &copied, nil
}

func (f *fakeTaskRepo) DeleteByIDAndOwner(_ context.Context, id, ownerID string) (*entities.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	delete(f.tasks, id)
	return task, nil
}

var (
	ownerA = uuid.NewString()
	ownerB = uuid.NewString()
)

func TestTaskCreateTrimsAndValidatesDescription(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), ownerA, &models.CreateTaskRequest{Description: "  buy milk  "})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Description)
	assert.Equal(t, ownerA, task.OwnerID)

	_, err = svc.Create(context.Background(), ownerA, &models.CreateTaskRequest{Description: "   "})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestTaskOwnershipIsolation(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), ownerB, &models.CreateTaskRequest{Description: "B's task"})
	require.NoError(t, err)

	// A's access to B's task id is identical to a nonexistent id: no
	// "forbidden" signal, just not-found.
	_, err = svc.Get(context.Background(), task.ID, ownerA)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	completed := true
	_, err = svc.Update(context.Background(), task.ID, ownerA, &models.TaskUpdate{Completed: &completed})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Delete(context.Background(), task.ID, ownerA)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// B still sees the task untouched.
	got, err := svc.Get(context.Background(), task.ID, ownerB)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestTaskGetInvalidID(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo())

	_, err := svc.Get(context.Background(), "not-a-uuid", ownerA)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskUpdateAppliesAllowedFields(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), ownerA, &models.CreateTaskRequest{Description: "original"})
	require.NoError(t, err)

	description := "changed"
	completed := true
	updated, err := svc.Update(context.Background(), task.ID, ownerA, &models.TaskUpdate{
		Description: &description,
		Completed:   &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Description)
	assert.True(t, updated.Completed)
}

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name  string
		query TaskListQuery
		want  repository.ListOptions
	}{
		{
			"empty query means unbounded",
			TaskListQuery{},
			repository.ListOptions{Limit: -1, Skip: -1},
		},
		{
			"completed true",
			TaskListQuery{Completed: "true"},
			repository.ListOptions{Completed: boolPtr(true), Limit: -1, Skip: -1},
		},
		{
			"completed with any other value filters false",
			TaskListQuery{Completed: "false"},
			repository.ListOptions{Completed: boolPtr(false), Limit: -1, Skip: -1},
		},
		{
			"sort descending",
			TaskListQuery{SortBy: "createdAt:desc"},
			repository.ListOptions{OrderBy: "created_at", Desc: true, Limit: -1, Skip: -1},
		},
		{
			"sort ascending by default",
			TaskListQuery{SortBy: "description"},
			repository.ListOptions{OrderBy: "description", Limit: -1, Skip: -1},
		},
		{
			"unknown sort field ignored",
			TaskListQuery{SortBy: "owner_id:asc"},
			repository.ListOptions{Limit: -1, Skip: -1},
		},
		{
			"pagination",
			TaskListQuery{Limit: "10", Skip: "20"},
			repository.ListOptions{Limit: 10, Skip: 20},
		},
		{
			"non-numeric pagination means no bound",
			TaskListQuery{Limit: "ten", Skip: "-5"},
			repository.ListOptions{Limit: -1, Skip: -1},
		},
		{
			"zero limit means no bound",
			TaskListQuery{Limit: "0", Skip: "0"},
			repository.ListOptions{Limit: -1, Skip: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseListOptions(tt.query))
		})
	}
}

func TestTaskListPassesOptionsThrough(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo)

	_, err := svc.List(context.Background(), ownerA, TaskListQuery{
		Completed: "true",
		SortBy:    "createdAt:desc",
		Limit:     "2",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastOpts.Completed)
	assert.True(t, *repo.lastOpts.Completed)
	assert.Equal(t, "created_at", repo.lastOpts.OrderBy)
	assert.True(t, repo.lastOpts.Desc)
	assert.Equal(t, 2, repo.lastOpts.Limit)
}

func boolPtr(b bool) *bool { return &b }
