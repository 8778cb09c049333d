package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"todoapp/internal/result"
	"todoapp/internal/todo"
	"todoapp/pkg/cache"
	"todoapp/pkg/events"
)

const listCacheKey = "todos"

// Server exposes the five todo remote procedures over HTTP.
type Server struct {
	store  todo.Store
	cache  *cache.MemoryCache
	pub    events.Publisher
	logger *log.Logger
}

// Options tunes the server; zero values pick sensible defaults.
type Options struct {
	CacheTTL  time.Duration
	Publisher events.Publisher
	Logger    *log.Logger
}

func New(st todo.Store, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Second
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		store:  st,
		cache:  cache.NewMemory(opts.CacheTTL),
		pub:    opts.Publisher,
		logger: opts.Logger,
	}
}

// Router wires the remote procedures. Mutations are POST; getTodos is
// a plain GET so it stays cacheable.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLog)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")
	r.HandleFunc("/rpc/getTodos", s.handleGetTodos).Methods("GET")
	r.HandleFunc("/rpc/createTodo", s.handleCreateTodo).Methods("POST")
	r.HandleFunc("/rpc/updateTodo", s.handleUpdateTodo).Methods("POST")
	r.HandleFunc("/rpc/toggleTodo", s.handleToggleTodo).Methods("POST")
	r.HandleFunc("/rpc/deleteTodo", s.handleDeleteTodo).Methods("POST")
	r.HandleFunc("/export", s.handleExport).Methods("GET")
	return r
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	s.logger.Info("listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleGetTodos(w http.ResponseWriter, r *http.Request) {
	if b, ok := s.cache.Get(listCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}
	all, err := s.store.All(r.Context())
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if all == nil {
		all = []todo.Todo{}
	}
	b, err := json.Marshal(all)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, todo.CodeStorageError, err)
		return
	}
	s.cache.Set(listCacheKey, b)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todo.CreateRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, todo.CodeInvalidRequest, err)
		return
	}
	t, err := s.store.Create(r.Context(), req.Title)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.mutated(events.TopicCreated, t)
	writeJSON(w, t)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req todo.UpdateRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, todo.CodeInvalidRequest, err)
		return
	}
	t, err := s.store.Get(r.Context(), req.ID)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if req.Title != nil {
		t, err = s.store.UpdateTitle(r.Context(), req.ID, *req.Title)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
	}
	s.mutated(events.TopicUpdated, t)
	writeJSON(w, t)
}

// Toggle is read-then-write; concurrent toggles on one id resolve to
// last writer wins.
func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	var req todo.ToggleRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, todo.CodeInvalidRequest, err)
		return
	}
	t, err := s.store.Get(r.Context(), req.ID)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	t, err = s.store.SetCompleted(r.Context(), req.ID, !t.Completed)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.mutated(events.TopicUpdated, t)
	writeJSON(w, t)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	var req todo.DeleteRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, todo.CodeInvalidRequest, err)
		return
	}
	if err := s.store.Delete(r.Context(), req.ID); err != nil {
		writeStoreErr(w, err)
		return
	}
	s.mutated(events.TopicDeleted, todo.Todo{ID: req.ID})
	writeJSON(w, todo.DeleteResponse{Success: true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	ex := result.NewExporter(s.store)
	b, err := ex.Export(r.Context(), format)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, todo.CodeStorageError, err)
		return
	}
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(b)
}

// mutated busts the list cache and emits the mutation event.
func (s *Server) mutated(topic string, t todo.Todo) {
	s.cache.Invalidate(listCacheKey)
	if b, err := json.Marshal(t); err == nil {
		_ = s.pub.Publish(topic, b)
	}
}

type validatable interface{ Validate() error }

func decode(r *http.Request, req validatable) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return &todo.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return req.Validate()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, todo.ErrNotFound) {
		writeErr(w, http.StatusNotFound, todo.CodeNotFound, err)
		return
	}
	writeErr(w, http.StatusInternalServerError, todo.CodeStorageError, err)
}

func writeErr(w http.ResponseWriter, status int, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(todo.ErrorResponse{Code: code, Message: err.Error()})
}
