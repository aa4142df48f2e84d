package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"minitask/internal/session"
)

// ErrLoginFailed is returned when the server rejects the email or
// password.
var ErrLoginFailed = errors.New("invalid email or password")

// AuthClient talks to the auth endpoints. It carries no credential;
// its whole job is obtaining one.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuth creates an AuthClient for the server at baseURL.
func NewAuth(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: APITimeout},
	}
}

// Register creates an account and returns the issued session.
func (a *AuthClient) Register(ctx context.Context, email, password string) (session.Session, error) {
	return a.obtain(ctx, "/api/auth/register", email, password)
}

// Login authenticates and returns a fresh session.
func (a *AuthClient) Login(ctx context.Context, email, password string) (session.Session, error) {
	return a.obtain(ctx, "/api/auth/login", email, password)
}

func (a *AuthClient) obtain(ctx context.Context, path, email, password string) (session.Session, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(string(payload)))
	if err != nil {
		return session.Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return session.Session{}, wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		if resp.StatusCode == http.StatusUnauthorized {
			return session.Session{}, ErrLoginFailed
		}
		if body.Message == "" {
			body.Message = fmt.Sprintf("server error (%d)", resp.StatusCode)
		}
		return session.Session{}, errors.New(body.Message)
	}

	var body struct {
		Token   string          `json:"token"`
		Account session.Account `json:"account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return session.Session{}, fmt.Errorf("decode auth response: %w", err)
	}
	if body.Token == "" {
		return session.Session{}, errors.New("server returned no token")
	}
	return session.Session{Token: body.Token, Account: body.Account}, nil
}
