// Package client holds the typed remote procedures and the session
// state layer that the terminal UI drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"todoapp/internal/todo"
)

// Client invokes the server's remote procedures and maps the error
// envelope back into the typed errors the rest of the app works with.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GetTodos(ctx context.Context) ([]todo.Todo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/rpc/getTodos", nil)
	if err != nil {
		return nil, err
	}
	var out []todo.Todo
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, title string) (todo.Todo, error) {
	var out todo.Todo
	err := c.call(ctx, "createTodo", todo.CreateRequest{Title: title}, &out)
	return out, err
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, title *string) (todo.Todo, error) {
	var out todo.Todo
	err := c.call(ctx, "updateTodo", todo.UpdateRequest{ID: id, Title: title}, &out)
	return out, err
}

func (c *Client) ToggleTodo(ctx context.Context, id int64) (todo.Todo, error) {
	var out todo.Todo
	err := c.call(ctx, "toggleTodo", todo.ToggleRequest{ID: id}, &out)
	return out, err
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) (todo.DeleteResponse, error) {
	var out todo.DeleteResponse
	err := c.call(ctx, "deleteTodo", todo.DeleteRequest{ID: id}, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, procedure string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/rpc/"+procedure, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeErr(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeErr(resp *http.Response) error {
	var envelope todo.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	switch envelope.Code {
	case todo.CodeNotFound:
		return fmt.Errorf("%s: %w", envelope.Message, todo.ErrNotFound)
	case todo.CodeInvalidRequest:
		return &todo.ValidationError{Field: "request", Reason: envelope.Message}
	default:
		return fmt.Errorf("remote call failed: %s", envelope.Message)
	}
}
