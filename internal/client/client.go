// Package client implements the service interface over the task
// server's HTTP API. The bearer credential rides on every request via
// an oauth2 token source; failures are normalized to the shared error
// taxonomy with user-facing messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"minitask/internal/session"
	"minitask/internal/task"
)

// APITimeout is the timeout for API calls.
const APITimeout = 5 * time.Second

// Client implements service.Service against a task server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client that authenticates with the session's bearer
// token.
func New(ctx context.Context, baseURL string, sess session.Session) *Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: sess.Token,
		TokenType:   "Bearer",
	})
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, source),
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for
// testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, title string) (task.Task, error) {
	var resp struct {
		Task task.Task `json:"task"`
	}
	body := map[string]string{"title": title}
	if err := c.call(ctx, http.MethodPost, "/api/tasks", body, &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, taskID string, patch task.Patch) (task.Task, error) {
	var resp struct {
		Task task.Task `json:"task"`
	}
	if err := c.call(ctx, http.MethodPut, "/api/tasks/"+taskID, patch, &resp); err != nil {
		return task.Task{}, err
	}
	return resp.Task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, taskID string) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodDelete, "/api/tasks/"+taskID, nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// call performs one API request and decodes the response into out
// (skipped when out is nil).
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError turns an error response into the shared taxonomy, keeping
// the server's user-facing message where there is one.
func apiError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if body.Message == "" {
			body.Message = "Validation failed"
		}
		return &task.ValidationError{Message: body.Message}
	case http.StatusUnauthorized:
		return fmt.Errorf("%w (run: minitask login)", task.ErrInvalidCredential)
	case http.StatusNotFound:
		return task.ErrNotFound
	default:
		if body.Message == "" {
			body.Message = fmt.Sprintf("server error (%d)", resp.StatusCode)
		}
		return errors.New(body.Message)
	}
}

func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}
	return err
}
