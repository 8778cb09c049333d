package store

import (
	"context"
	"database/sql"
	"errors"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"todoapp/internal/todo"
)

// Store persists todos in a MySQL table.
type Store struct {
	db *sql.DB
}

var _ todo.Store = (*Store)(nil)

func NewDefaultStore() (*Store, error) {
	dsn := os.Getenv("TODOAPP_DSN")
	if dsn == "" {
		dsn = "root:123456@tcp(127.0.0.1:3306)/todoapp?parseTime=true"
	}
	return New(dsn)
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	// TIMESTAMP(6) keeps microsecond precision so created_at rarely
	// collides; the id tie-break in All covers the case where it does.
	createTodos := `CREATE TABLE IF NOT EXISTS todos (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
)`
	_, err := s.db.ExecContext(ctx, createTodos)
	return err
}

const todoColumns = `id, title, completed, created_at`

func (s *Store) All(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+todoColumns+`
    FROM todos
    ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []todo.Todo
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (todo.Todo, error) {
	var t todo.Todo
	err := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id=?`, id).
		Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, todo.ErrNotFound
	}
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

// Create inserts the row and reads it back so the caller sees the id
// and created_at the database assigned.
func (s *Store) Create(ctx context.Context, title string) (todo.Todo, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO todos (title) VALUES (?)`, title)
	if err != nil {
		return todo.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todo.Todo{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) UpdateTitle(ctx context.Context, id int64, title string) (todo.Todo, error) {
	if _, err := s.db.ExecContext(ctx, `UPDATE todos SET title=? WHERE id=?`, title, id); err != nil {
		return todo.Todo{}, err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so the follow-up Get settles which one it was.
	return s.Get(ctx, id)
}

func (s *Store) SetCompleted(ctx context.Context, id int64, completed bool) (todo.Todo, error) {
	if _, err := s.db.ExecContext(ctx, `UPDATE todos SET completed=? WHERE id=?`, completed, id); err != nil {
		return todo.Todo{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes the row if present. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id=?`, id)
	return err
}
