package client

import (
	"context"
	"errors"
	"time"

	"todoapp/internal/todo"
)

// State holds the authoritative in-session copy of the todo list. Each
// action calls the matching remote procedure and reconciles the local
// list with the response. When the call fails at the transport level
// the same mutation is applied locally and the state enters degraded
// mode until the next successful call. Local-only records carry
// negative ids and are never sent to the server.
//
// State is not safe for concurrent use; the TUI drives it from a
// single goroutine.
type State struct {
	client      *Client
	todos       []todo.Todo
	degraded    bool
	nextLocalID int64
}

func NewState(c *Client) *State {
	return &State{client: c, nextLocalID: -1}
}

// Todos returns the current list, newest first.
func (s *State) Todos() []todo.Todo { return s.todos }

// Degraded reports whether the last remote call failed and the list is
// running on local, non-persisted state.
func (s *State) Degraded() bool { return s.degraded }

// Load replaces the local list with the server's. On failure the
// previous local list survives and the state goes degraded.
func (s *State) Load(ctx context.Context) error {
	all, err := s.client.GetTodos(ctx)
	if err != nil {
		s.degraded = true
		return err
	}
	s.todos = all
	s.degraded = false
	return nil
}

func (s *State) Create(ctx context.Context, title string) error {
	req := todo.CreateRequest{Title: title}
	if err := req.Validate(); err != nil {
		return err
	}
	t, err := s.client.CreateTodo(ctx, title)
	if remoteRejected(err) {
		return err
	}
	if err != nil {
		t = todo.Todo{
			ID:        s.nextLocalID,
			Title:     title,
			Completed: false,
			CreatedAt: time.Now(),
		}
		s.nextLocalID--
		s.degraded = true
	} else {
		s.degraded = false
	}
	s.todos = append([]todo.Todo{t}, s.todos...)
	return nil
}

func (s *State) Toggle(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return todo.ErrNotFound
	}
	if id < 0 {
		s.todos[i].Completed = !s.todos[i].Completed
		return nil
	}
	t, err := s.client.ToggleTodo(ctx, id)
	if remoteRejected(err) {
		return err
	}
	if err != nil {
		s.todos[i].Completed = !s.todos[i].Completed
		s.degraded = true
		return nil
	}
	s.todos[i] = t
	s.degraded = false
	return nil
}

func (s *State) Update(ctx context.Context, id int64, title string) error {
	req := todo.UpdateRequest{ID: id, Title: &title}
	if id >= 0 {
		if err := req.Validate(); err != nil {
			return err
		}
	}
	i := s.index(id)
	if i < 0 {
		return todo.ErrNotFound
	}
	if id < 0 {
		s.todos[i].Title = title
		return nil
	}
	t, err := s.client.UpdateTodo(ctx, id, &title)
	if remoteRejected(err) {
		return err
	}
	if err != nil {
		s.todos[i].Title = title
		s.degraded = true
		return nil
	}
	s.todos[i] = t
	s.degraded = false
	return nil
}

func (s *State) Delete(ctx context.Context, id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	if id < 0 {
		s.remove(i)
		return nil
	}
	_, err := s.client.DeleteTodo(ctx, id)
	if remoteRejected(err) {
		return err
	}
	if err != nil {
		s.degraded = true
	} else {
		s.degraded = false
	}
	s.remove(i)
	return nil
}

func (s *State) index(id int64) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) remove(i int) {
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
}

// remoteRejected tells a logical rejection (bad input, missing id)
// from a transport failure. Only transport failures trigger the local
// fallback.
func remoteRejected(err error) bool {
	return errors.Is(err, todo.ErrNotFound) || todo.IsValidation(err)
}
