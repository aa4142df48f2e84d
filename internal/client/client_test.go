package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"minitask/internal/auth"
	"minitask/internal/clock"
	"minitask/internal/server"
	"minitask/internal/session"
	"minitask/internal/store"
	"minitask/internal/task"
)

func sessionWithToken(token string) session.Session {
	return session.Session{Token: token}
}

// startServer runs the real handler over an in-memory store so the
// client is exercised against the actual wire contract.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	st, err := store.Open(store.Config{Path: "file::memory:?mode=memory&cache=shared", PoolSize: 1, Clock: fc})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	provider, err := auth.NewProvider(auth.Config{Store: st, Clock: fc, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatal(err)
	}
	svc, err := server.NewTaskService(provider, st, nil)
	if err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(server.NewHandler(svc, provider, nil))
	t.Cleanup(ts.Close)
	return ts
}

func loggedInClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	ctx := context.Background()
	sess, err := NewAuth(ts.URL).Register(ctx, "sam@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return New(ctx, ts.URL, sess)
}

func TestRoundTrip(t *testing.T) {
	ts := startServer(t)
	c := loggedInClient(t, ts)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Buy milk" || created.Status != task.StatusPending {
		t.Errorf("created = %+v", created)
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Errorf("list = %+v", tasks)
	}

	status := task.StatusCompleted
	updated, err := c.UpdateTask(ctx, created.ID, task.Patch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != task.StatusCompleted || updated.Title != "Buy milk" {
		t.Errorf("updated = %+v", updated)
	}

	deletedID, err := c.DeleteTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deletedID != created.ID {
		t.Errorf("deleted id = %q, want %q", deletedID, created.ID)
	}

	tasks, err = c.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("list after delete = %+v", tasks)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := startServer(t)
	c := loggedInClient(t, ts)
	ctx := context.Background()

	// Validation failure surfaces as a ValidationError with the
	// server's message.
	_, err := c.CreateTask(ctx, "   ")
	if !task.IsValidation(err) {
		t.Errorf("blank title: got %v, want ValidationError", err)
	}

	// Missing task id maps to ErrNotFound.
	if _, err := c.DeleteTask(ctx, "no-such-id"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}

	// A bad credential maps to ErrInvalidCredential.
	bad := New(ctx, ts.URL, sessionWithToken("forged"))
	if _, err := bad.ListTasks(ctx); !errors.Is(err, task.ErrInvalidCredential) {
		t.Errorf("forged token: got %v, want ErrInvalidCredential", err)
	}
}

func TestLoginFailure(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	a := NewAuth(ts.URL)
	if _, err := a.Register(ctx, "sam@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Login(ctx, "sam@example.com", "wrong"); !errors.Is(err, ErrLoginFailed) {
		t.Errorf("bad password: got %v, want ErrLoginFailed", err)
	}
	if _, err := a.Register(ctx, "sam@example.com", "hunter22"); err == nil {
		t.Error("duplicate register should fail")
	}
}

func TestServerErrorMessage(t *testing.T) {
	// A 500 keeps the server's message.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Server error while fetching tasks"}`))
	}))
	defer ts.Close()

	c := NewWithHTTPClient(ts.URL, ts.Client())
	_, err := c.ListTasks(context.Background())
	if err == nil || err.Error() != "Server error while fetching tasks" {
		t.Errorf("got %v", err)
	}
}
