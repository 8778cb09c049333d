package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"todoapp/internal/todo"
)

// MemStore is an in-memory todo.Store. It backs the TUI's local mode
// and the handler tests; it keeps the same ordering contract as the
// SQL store.
type MemStore struct {
	mu     sync.RWMutex
	todos  map[int64]todo.Todo
	nextID int64
	now    func() time.Time
}

var _ todo.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		todos:  make(map[int64]todo.Todo),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *MemStore) All(ctx context.Context) ([]todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]todo.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (todo.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}
	return t, nil
}

func (s *MemStore) Create(ctx context.Context, title string) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := todo.Todo{
		ID:        s.nextID,
		Title:     title,
		Completed: false,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.todos[t.ID] = t
	return t, nil
}

func (s *MemStore) UpdateTitle(ctx context.Context, id int64, title string) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}
	t.Title = title
	s.todos[id] = t
	return t, nil
}

func (s *MemStore) SetCompleted(ctx context.Context, id int64, completed bool) (todo.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}
	t.Completed = completed
	s.todos[id] = t
	return t, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.todos, id)
	return nil
}
