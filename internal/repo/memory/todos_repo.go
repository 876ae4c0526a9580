package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clearlist/api/internal/domain/todo"
)

type TodosRepo struct {
	mu    sync.RWMutex
	items map[string]todo.Todo
	seq   map[string]int // insertion order tiebreak for equal timestamps
	next  int
}

func NewTodosRepo() *TodosRepo {
	return &TodosRepo{
		items: make(map[string]todo.Todo),
		seq:   make(map[string]int),
	}
}

func (r *TodosRepo) ListByOwner(_ context.Context, ownerID string) ([]todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]todo.Todo, 0)

	for _, t := range r.items {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}

	// creation order, same contract as the SQL repo
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})

	return out, nil
}

func (r *TodosRepo) Create(_ context.Context, ownerID string, req todo.CreateTodoRequest) (todo.Todo, error) {
	t := todo.NewFromCreateRequest(ownerID, req)

	r.mu.Lock()
	r.items[t.ID] = t
	r.seq[t.ID] = r.next
	r.next++
	r.mu.Unlock()

	return t, nil
}

func (r *TodosRepo) Update(_ context.Context, ownerID string, req todo.UpdateTodoRequest) (todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[req.ID]

	if !ok || t.OwnerID != ownerID {
		return todo.Todo{}, todo.ErrNotFound
	}

	t.Title = req.Title
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = time.Now().UTC()

	r.items[req.ID] = t

	return t, nil
}

func (r *TodosRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]

	if !ok || t.OwnerID != ownerID {
		return todo.ErrNotFound
	}

	delete(r.items, id)
	delete(r.seq, id)

	return nil
}
