// Package service contains the application service for owner-scoped tasks.
package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
	"github.com/taskfence/taskfence/internal/repository"
)

// TaskService defines owner-scoped task operations. The principal is always
// an explicit argument; nothing about the caller is ever inferred from the
// entity being addressed.
type TaskService interface {
	// List returns all tasks of the principal in creation order.
	List(ctx context.Context, p model.Principal) ([]model.Task, error)
	// Create validates input and persists a new task owned by the principal.
	Create(ctx context.Context, p model.Principal, in model.TaskInput) (*model.Task, error)
	// Get returns one task of the principal or errs.ErrNotFound.
	Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Task, error)
	// Update applies a partial update to one task of the principal.
	Update(ctx context.Context, p model.Principal, id uuid.UUID, patch model.TaskPatch) (*model.Task, error)
	// Delete removes one task of the principal or reports errs.ErrNotFound.
	Delete(ctx context.Context, p model.Principal, id uuid.UUID) error
}

type TaskServiceImpl struct {
	repo repository.TaskRepository
}

// NewTaskService constructs TaskService with required dependencies.
func NewTaskService(repo repository.TaskRepository) *TaskServiceImpl {
	return &TaskServiceImpl{repo: repo}
}

// List returns the principal's tasks.
func (s *TaskServiceImpl) List(ctx context.Context, p model.Principal) ([]model.Task, error) {
	return s.repo.List(ctx, p.ID)
}

// Create validates the title, assigns the id and delegates persistence.
func (s *TaskServiceImpl) Create(ctx context.Context, p model.Principal, in model.TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.NewValidation("title", "must not be empty")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t := &model.Task{
		ID:          id,
		OwnerID:     p.ID,
		Title:       title,
		Description: in.Description,
	}
	return s.repo.Create(ctx, t)
}

// Get fetches a single task under the principal's scope.
func (s *TaskServiceImpl) Get(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Task, error) {
	return s.repo.Get(ctx, p.ID, id)
}

// Update re-validates the title when supplied and applies the patch.
func (s *TaskServiceImpl) Update(ctx context.Context, p model.Principal, id uuid.UUID, patch model.TaskPatch) (*model.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, errs.NewValidation("title", "must not be empty")
		}
		patch.Title = &title
	}
	return s.repo.Update(ctx, p.ID, id, patch)
}

// Delete removes the task under the principal's scope.
func (s *TaskServiceImpl) Delete(ctx context.Context, p model.Principal, id uuid.UUID) error {
	return s.repo.Delete(ctx, p.ID, id)
}
