package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskfence/taskfence/internal/auth"
	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
	"github.com/taskfence/taskfence/internal/repository"
	"github.com/taskfence/taskfence/internal/service"
)

var testSecret = []byte("router-test-secret")

// memTaskRepo mirrors the Postgres repo semantics in memory: compound
// predicate on every lookup, COALESCE-style partial update, insertion order.
type memTaskRepo struct {
	mu    sync.Mutex
	tasks []model.Task
}

var _ repository.TaskRepository = (*memTaskRepo)(nil)

func (m *memTaskRepo) List(_ context.Context, ownerID string) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTaskRepo) Create(_ context.Context, t *model.Task) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	cpy := *t
	cpy.CreatedAt, cpy.UpdatedAt = now, now
	m.tasks = append(m.tasks, cpy)
	return &cpy, nil
}

func (m *memTaskRepo) Get(_ context.Context, ownerID string, id uuid.UUID) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			cpy := t
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memTaskRepo) Update(_ context.Context, ownerID string, id uuid.UUID, p model.TaskPatch) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].OwnerID == ownerID {
			if p.Title != nil {
				m.tasks[i].Title = *p.Title
			}
			if p.Description != nil {
				m.tasks[i].Description = *p.Description
			}
			if p.Completed != nil {
				m.tasks[i].Completed = *p.Completed
			}
			m.tasks[i].UpdatedAt = time.Now()
			cpy := m.tasks[i]
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memTaskRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].OwnerID == ownerID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

// blockingPinger hangs until the caller's context expires.
type blockingPinger struct{}

func (blockingPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestServer(t *testing.T, db Pinger) (*httptest.Server, *memTaskRepo) {
	t.Helper()
	repo := &memTaskRepo{}
	log := zap.NewNop()
	h := NewHandlers(service.NewTaskService(repo), db, 100*time.Millisecond, log)
	router := NewRouter(RouterDeps{
		Handlers: h,
		Verifier: auth.NewVerifier(testSecret),
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, repo
}

func mintToken(t *testing.T, secret []byte, sub, email string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(ttl)),
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}
