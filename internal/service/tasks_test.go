package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
	"github.com/taskfence/taskfence/internal/repository"
)

type fakeTaskRepo struct {
	listInOwner string
	listOut     []model.Task
	listErr     error

	createIn  *model.Task
	createErr error

	getInOwner string
	getInID    uuid.UUID
	getOut     *model.Task
	getErr     error

	updInOwner string
	updInID    uuid.UUID
	updInPatch model.TaskPatch
	updOut     *model.Task
	updErr     error

	delInOwner string
	delInID    uuid.UUID
	delErr     error
}

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)

func (f *fakeTaskRepo) List(_ context.Context, ownerID string) ([]model.Task, error) {
	f.listInOwner = ownerID
	return append([]model.Task(nil), f.listOut...), f.listErr
}
func (f *fakeTaskRepo) Create(_ context.Context, t *model.Task) (*model.Task, error) {
	cpy := *t
	f.createIn = &cpy
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cpy, nil
}
func (f *fakeTaskRepo) Get(_ context.Context, ownerID string, id uuid.UUID) (*model.Task, error) {
	f.getInOwner, f.getInID = ownerID, id
	return f.getOut, f.getErr
}
func (f *fakeTaskRepo) Update(_ context.Context, ownerID string, id uuid.UUID, p model.TaskPatch) (*model.Task, error) {
	f.updInOwner, f.updInID, f.updInPatch = ownerID, id, p
	return f.updOut, f.updErr
}
func (f *fakeTaskRepo) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	f.delInOwner, f.delInID = ownerID, id
	return f.delErr
}

var alice = model.Principal{ID: "alice", Email: "alice@example.com"}

func TestTaskService_Create_TrimsTitle(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{}
	s := NewTaskService(repo)

	created, err := s.Create(context.Background(), alice, model.TaskInput{Title: "  Buy milk  ", Description: "2l"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "Buy milk" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.OwnerID != alice.ID {
		t.Fatalf("owner want %q, got %q", alice.ID, created.OwnerID)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("id not assigned")
	}
	if repo.createIn == nil || repo.createIn.Description != "2l" {
		t.Fatalf("description not passed through")
	}
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{}
	s := NewTaskService(repo)

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(context.Background(), alice, model.TaskInput{Title: title})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("title %q: want ValidationError, got %v", title, err)
		}
		if ve.Field != "title" {
			t.Fatalf("want field title, got %q", ve.Field)
		}
		if repo.createIn != nil {
			t.Fatalf("repo must not be called on invalid input")
		}
	}
}

func TestTaskService_List_ScopedToPrincipal(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{listOut: []model.Task{{Title: "one"}}}
	s := NewTaskService(repo)

	out, err := s.List(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listInOwner != alice.ID {
		t.Fatalf("list not scoped: got owner %q", repo.listInOwner)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 task, got %d", len(out))
	}
}

func TestTaskService_Update_TitleValidation(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{}
	s := NewTaskService(repo)
	id := uuid.Must(uuid.NewV4())

	empty := "   "
	_, err := s.Update(context.Background(), alice, id, model.TaskPatch{Title: &empty})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	trimmed := "  Buy oat milk "
	repo.updOut = &model.Task{ID: id, OwnerID: alice.ID, Title: "Buy oat milk"}
	if _, err := s.Update(context.Background(), alice, id, model.TaskPatch{Title: &trimmed}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updInPatch.Title == nil || *repo.updInPatch.Title != "Buy oat milk" {
		t.Fatalf("title not trimmed in patch: %v", repo.updInPatch.Title)
	}
	if repo.updInOwner != alice.ID || repo.updInID != id {
		t.Fatalf("update not scoped to principal and id")
	}
}

func TestTaskService_Update_NoTitleSkipsValidation(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{updOut: &model.Task{Completed: true}}
	s := NewTaskService(repo)

	done := true
	got, err := s.Update(context.Background(), alice, uuid.Must(uuid.NewV4()), model.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Completed {
		t.Fatalf("completed not applied")
	}
	if repo.updInPatch.Title != nil {
		t.Fatalf("title must stay absent")
	}
}

func TestTaskService_NotFoundPassthrough(t *testing.T) {
	t.Parallel()
	repo := &fakeTaskRepo{getErr: errs.ErrNotFound, updErr: errs.ErrNotFound, delErr: errs.ErrNotFound}
	s := NewTaskService(repo)
	id := uuid.Must(uuid.NewV4())

	if _, err := s.Get(context.Background(), alice, id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("get: want ErrNotFound, got %v", err)
	}
	if _, err := s.Update(context.Background(), alice, id, model.TaskPatch{}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("update: want ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), alice, id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("delete: want ErrNotFound, got %v", err)
	}
}
