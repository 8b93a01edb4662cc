// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/taskfence/taskfence/internal/model"
)

// TaskRepository provides owner-scoped access to tasks. The owner id is a
// required argument of every lookup so the compound predicate
// (id AND owner_id) is part of the contract, not a convention: there is no
// way to address a task without naming its owner.
type TaskRepository interface {
	// List returns all tasks of the owner in creation order, ties broken by
	// id ascending. Empty slice when none exist.
	List(ctx context.Context, ownerID string) ([]model.Task, error)

	// Create inserts a new task and returns it with DB-assigned timestamps.
	Create(ctx context.Context, t *model.Task) (*model.Task, error)

	// Get returns the task only if it exists and belongs to the owner;
	// otherwise errs.ErrNotFound.
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*model.Task, error)

	// Update applies the provided fields in a single statement scoped by both
	// predicates, refreshes updated_at and returns the updated row. Missing
	// row or foreign owner yields errs.ErrNotFound.
	Update(ctx context.Context, ownerID string, id uuid.UUID, p model.TaskPatch) (*model.Task, error)

	// Delete removes the task under the same predicate; errs.ErrNotFound when
	// nothing matched, so a repeated delete is not reported as success.
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}
