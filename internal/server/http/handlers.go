// Package httpserver exposes the task API over HTTP.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
	"github.com/taskfence/taskfence/internal/service"
)

// Pinger reports backing-store liveness. Implemented by pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers wires the task service into HTTP endpoints.
type Handlers struct {
	tasks         service.TaskService
	db            Pinger
	healthTimeout time.Duration
	log           *zap.Logger
}

// NewHandlers constructs the handler set.
func NewHandlers(tasks service.TaskService, db Pinger, healthTimeout time.Duration, log *zap.Logger) *Handlers {
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	return &Handlers{tasks: tasks, db: db, healthTimeout: healthTimeout, log: log}
}

// --- wire types (snake_case to match the frontend contract) ---

type taskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	IsCompleted bool    `json:"is_completed"`
	UserID      string  `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func toTaskResponse(t *model.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.Completed,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !t.UpdatedAt.IsZero() {
		ts := t.UpdatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = &ts
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps core failures onto the response contract. Auth reasons and
// store failures stay opaque; validation names the offending field.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "task not found")
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": map[string]string{"field": ve.Field, "reason": ve.Reason},
		})
	case errors.Is(err, errs.ErrUnauthenticated):
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.log.Error("store failure", zap.Error(err))
		writeDetail(w, http.StatusServiceUnavailable, "service unavailable")
	}
}

// principal is non-optional here: the auth middleware guards every route that
// reaches these handlers.
func (h *Handlers) principal(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "unauthorized")
	}
	return p, ok
}

func taskID(r *http.Request) (uuid.UUID, error) {
	return uuid.FromString(chi.URLParam(r, "id"))
}

// --- task endpoints ---

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.tasks.Create(r.Context(), p, model.TaskInput{Title: req.Title, Description: req.Description})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

// GetTask handles GET /tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		// an unparseable id can never name an existing task
		writeDetail(w, http.StatusNotFound, "task not found")
		return
	}
	t, err := h.tasks.Get(r.Context(), p, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// UpdateTask handles PUT /tasks/{id} with partial semantics: absent fields
// stay untouched.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "task not found")
		return
	}
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	patch := model.TaskPatch{Title: req.Title, Description: req.Description, Completed: req.IsCompleted}
	t, err := h.tasks.Update(r.Context(), p, id, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := taskID(r)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "task not found")
		return
	}
	if err := h.tasks.Delete(r.Context(), p, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me and echoes the authenticated identity.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": p.ID, "email": p.Email})
}

// Root handles GET / with a plain banner.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "taskfence API is running"})
}

// --- probes ---

// Health handles GET /health. The DB probe is bounded by healthTimeout so a
// stuck store degrades the report instead of hanging the caller.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
	defer cancel()

	database := "connected"
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health db probe failed", zap.Error(err))
		database = "disconnected"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": database})
}

// Ready handles GET /ready.
func (h *Handlers) Ready(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live handles GET /live.
func (h *Handlers) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
