package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
)

// TaskRepo implements TaskRepository using PostgreSQL. Every statement that
// names a task id also names the owner id in the same WHERE clause; there is
// no fetch-then-check path anywhere in this file.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

// List returns the owner's tasks in creation order.
func (r *TaskRepo) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	const q = `
SELECT id, owner_id, title, description, completed, created_at, updated_at
FROM tasks WHERE owner_id=$1
ORDER BY created_at, id`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err = rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new task and returns it with the DB-assigned timestamps.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
INSERT INTO tasks (id, owner_id, title, description, completed)
VALUES ($1,$2,$3,$4,$5)
RETURNING created_at, updated_at`
	created := *t
	row := r.db.Pool.QueryRow(ctx, q, t.ID, t.OwnerID, t.Title, t.Description, t.Completed)
	if err := row.Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns a single task under the compound predicate.
func (r *TaskRepo) Get(ctx context.Context, ownerID string, id uuid.UUID) (*model.Task, error) {
	const q = `
SELECT id, owner_id, title, description, completed, created_at, updated_at
FROM tasks WHERE id=$1 AND owner_id=$2`
	row := r.db.Pool.QueryRow(ctx, q, id, ownerID)
	var t model.Task
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update applies only the provided fields in one atomic statement. COALESCE
// keeps absent fields untouched; RETURNING yields the refreshed row so no
// second read is needed.
func (r *TaskRepo) Update(ctx context.Context, ownerID string, id uuid.UUID, p model.TaskPatch) (*model.Task, error) {
	const q = `
UPDATE tasks
SET title=COALESCE($3,title), description=COALESCE($4,description),
    completed=COALESCE($5,completed), updated_at=now()
WHERE id=$1 AND owner_id=$2
RETURNING id, owner_id, title, description, completed, created_at, updated_at`
	row := r.db.Pool.QueryRow(ctx, q, id, ownerID, p.Title, p.Description, p.Completed)
	var t model.Task
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes the task; zero rows affected means not found, which also
// makes a repeated delete report not found rather than success.
func (r *TaskRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	const q = `DELETE FROM tasks WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
