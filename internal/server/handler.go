package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"minitask/internal/auth"
	"minitask/internal/store"
	"minitask/internal/task"
)

// Handler is the HTTP surface of the task service plus the auth
// endpoints the client uses to obtain a credential.
type Handler struct {
	tasks    *TaskService
	provider *auth.Provider
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewHandler builds the route table.
func NewHandler(tasks *TaskService, provider *auth.Provider, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{tasks: tasks, provider: provider, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("POST /api/tasks", h.createTask)
	mux.HandleFunc("PUT /api/tasks/{id}", h.updateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)
	h.mux = mux
	return h
}

// ServeHTTP logs each request around the route dispatch.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Account auth.Identity `json:"account"`
}

type taskResponse struct {
	Message string    `json:"message"`
	Task    task.Task `json:"task"`
}

type deleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	identity, token, err := h.provider.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case task.IsValidation(err):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		case errors.Is(err, store.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse{Message: "Email is already registered"})
		default:
			h.serverError(w, "Server error during registration", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "Account created successfully",
		Token:   token,
		Account: identity,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	identity, token, err := h.provider.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidLogin) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid email or password"})
			return
		}
		h.serverError(w, "Server error during login", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		Account: identity,
	})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context(), bearerToken(r))
	if err != nil {
		h.taskError(w, err, "Server error while fetching tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	created, err := h.tasks.Create(r.Context(), bearerToken(r), req.Title)
	if err != nil {
		h.taskError(w, err, "Server error while creating task")
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{Message: "Task created successfully", Task: created})
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	updated, err := h.tasks.Update(r.Context(), bearerToken(r), r.PathValue("id"), patch)
	if err != nil {
		h.taskError(w, err, "Server error while updating task")
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task updated successfully", Task: updated})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.tasks.Delete(r.Context(), bearerToken(r), id); err != nil {
		h.taskError(w, err, "Server error while deleting task")
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Message: "Task deleted successfully", ID: id})
}

// taskError maps the error taxonomy to status codes. Cross-owner and
// nonexistent task ids both arrive here as task.ErrNotFound and produce
// byte-identical responses.
func (h *Handler) taskError(w http.ResponseWriter, err error, serverMsg string) {
	switch {
	case errors.Is(err, task.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authorization token required"})
	case errors.Is(err, task.ErrInvalidCredential):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid or expired token"})
	case task.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, task.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Task not found"})
	default:
		h.serverError(w, serverMsg, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error("server error", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: msg})
}

// bearerToken extracts the credential from the Authorization header.
// Returns "" for a missing or malformed header; the verifier turns
// that into Unauthenticated.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
