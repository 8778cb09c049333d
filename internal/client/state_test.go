package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"todoapp/internal/server"
	"todoapp/internal/store"
	"todoapp/internal/todo"
)

// flakyHandler fronts the real server and can be switched into a
// failure mode that answers 502 to everything, which the client treats
// as a transport failure.
type flakyHandler struct {
	mu   sync.Mutex
	fail bool
	next http.Handler
}

func (f *flakyHandler) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *flakyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	failing := f.fail
	f.mu.Unlock()
	if failing {
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	f.next.ServeHTTP(w, r)
}

func newEnv(t *testing.T) (*State, *Client, *flakyHandler) {
	t.Helper()
	srv := server.New(store.NewMemStore(), server.Options{Logger: log.New(io.Discard)})
	flaky := &flakyHandler{next: srv.Router()}
	ts := httptest.NewServer(flaky)
	t.Cleanup(ts.Close)
	c := New(ts.URL)
	return NewState(c), c, flaky
}

func TestStateCreateReconciles(t *testing.T) {
	st, _, _ := newEnv(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if err := st.Create(ctx, title); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
	}
	todos := st.Todos()
	want := []string{"Third", "Second", "First"}
	if len(todos) != len(want) {
		t.Fatalf("got %d todos, want %d", len(todos), len(want))
	}
	for i, w := range want {
		if todos[i].Title != w {
			t.Errorf("todos[%d]: got %q, want %q", i, todos[i].Title, w)
		}
		if todos[i].ID <= 0 {
			t.Errorf("todos[%d]: server-assigned id expected, got %d", i, todos[i].ID)
		}
	}
	if st.Degraded() {
		t.Error("degraded after successful creates")
	}
}

func TestStateCreateValidation(t *testing.T) {
	st, _, _ := newEnv(t)
	if err := st.Create(context.Background(), "   "); !todo.IsValidation(err) {
		t.Errorf("Create(blank): err = %v, want validation error", err)
	}
	if len(st.Todos()) != 0 {
		t.Error("invalid create still mutated local state")
	}
}

func TestStateToggleRoundTrip(t *testing.T) {
	st, _, _ := newEnv(t)
	ctx := context.Background()

	if err := st.Create(ctx, "flip"); err != nil {
		t.Fatal(err)
	}
	id := st.Todos()[0].ID
	if err := st.Toggle(ctx, id); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !st.Todos()[0].Completed {
		t.Error("first toggle: want completed")
	}
	if err := st.Toggle(ctx, id); err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if st.Todos()[0].Completed {
		t.Error("double toggle: want original value")
	}
}

func TestStateDegradedFallback(t *testing.T) {
	st, _, flaky := newEnv(t)
	ctx := context.Background()

	if err := st.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	flaky.setFail(true)
	if err := st.Create(ctx, "offline todo"); err != nil {
		t.Fatalf("degraded Create: %v", err)
	}
	if !st.Degraded() {
		t.Fatal("state should be degraded after transport failure")
	}
	todos := st.Todos()
	if len(todos) != 1 || todos[0].Title != "offline todo" {
		t.Fatalf("local fallback missing: %+v", todos)
	}
	localID := todos[0].ID
	if localID >= 0 {
		t.Errorf("local-only todo should carry a negative id, got %d", localID)
	}

	// Local-only records mutate without touching the wire.
	if err := st.Toggle(ctx, localID); err != nil {
		t.Fatalf("local Toggle: %v", err)
	}
	if !st.Todos()[0].Completed {
		t.Error("local toggle did not flip")
	}
	if err := st.Update(ctx, localID, "renamed offline"); err != nil {
		t.Fatalf("local Update: %v", err)
	}
	if st.Todos()[0].Title != "renamed offline" {
		t.Error("local update did not apply")
	}
	if err := st.Delete(ctx, localID); err != nil {
		t.Fatalf("local Delete: %v", err)
	}
	if len(st.Todos()) != 0 {
		t.Error("local delete did not remove")
	}

	// Next successful call clears degraded mode. Local-only changes
	// are not reconciled back to the server.
	flaky.setFail(false)
	if err := st.Load(ctx); err != nil {
		t.Fatalf("Load after recovery: %v", err)
	}
	if st.Degraded() {
		t.Error("degraded not cleared by successful call")
	}
}

func TestStateDegradedToggleFallsBack(t *testing.T) {
	st, _, flaky := newEnv(t)
	ctx := context.Background()

	if err := st.Create(ctx, "persisted"); err != nil {
		t.Fatal(err)
	}
	id := st.Todos()[0].ID

	flaky.setFail(true)
	if err := st.Toggle(ctx, id); err != nil {
		t.Fatalf("degraded Toggle: %v", err)
	}
	if !st.Degraded() || !st.Todos()[0].Completed {
		t.Error("degraded toggle should flip locally and set the flag")
	}
}

func TestStateDeleteUnknownIsNoop(t *testing.T) {
	st, _, _ := newEnv(t)
	if err := st.Delete(context.Background(), 12345); err != nil {
		t.Errorf("Delete(unknown): got %v, want nil", err)
	}
}

func TestClientNotFound(t *testing.T) {
	_, c, _ := newEnv(t)
	ctx := context.Background()

	if _, err := c.ToggleTodo(ctx, 404); !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("ToggleTodo(404): err = %v, want ErrNotFound", err)
	}
	title := "x"
	if _, err := c.UpdateTodo(ctx, 404, &title); !errors.Is(err, todo.ErrNotFound) {
		t.Errorf("UpdateTodo(404): err = %v, want ErrNotFound", err)
	}
}

func TestClientValidation(t *testing.T) {
	_, c, _ := newEnv(t)
	if _, err := c.CreateTodo(context.Background(), ""); !todo.IsValidation(err) {
		t.Errorf("CreateTodo(empty): err = %v, want validation error", err)
	}
}

func TestClientDeleteIdempotent(t *testing.T) {
	_, c, _ := newEnv(t)
	ctx := context.Background()

	created, err := c.CreateTodo(ctx, "doomed")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		resp, err := c.DeleteTodo(ctx, created.ID)
		if err != nil {
			t.Fatalf("DeleteTodo #%d: %v", i+1, err)
		}
		if !resp.Success {
			t.Errorf("DeleteTodo #%d: success = false", i+1)
		}
	}
	all, err := c.GetTodos(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("GetTodos after delete: got %d todos, want 0", len(all))
	}
}
