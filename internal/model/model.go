// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Principal is the authenticated identity for a single request, derived from
// a verified token. It is never persisted; ID is the isolation key.
type Principal struct {
	ID    string // subject claim, opaque and stable across sessions
	Email string // informational only, never used for scoping
}

// Task is a single owner-scoped record.
type Task struct {
	ID          uuid.UUID // PK, assigned at creation
	OwnerID     string    // Principal.ID of the creator, immutable
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time // advances on every mutation
}

// TaskInput carries caller-supplied fields for creation.
type TaskInput struct {
	Title       string
	Description string
}

// TaskPatch is a partial update; nil means "field not provided".
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}
