// Package auth issues and verifies the opaque bearer credentials that
// scope every task operation to an account. Tokens are 256-bit random
// values; the server keeps only their SHA-256 digest, so a database
// read never reveals a usable credential.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"minitask/internal/clock"
	"minitask/internal/store"
	"minitask/internal/task"
)

// DefaultTokenTTL is how long an issued credential stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 6

// ErrInvalidLogin is returned for a wrong email or password. The two
// cases are deliberately indistinguishable.
var ErrInvalidLogin = errors.New("invalid email or password")

// Identity is the resolved account descriptor attached to a verified
// request. It is referenced, never mutated, by the task service.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier resolves a bearer credential to the account that owns it.
// Every task service operation calls this first and aborts on failure.
type Verifier interface {
	// Verify returns the owning identity, task.ErrUnauthenticated for
	// a missing or malformed credential, or task.ErrInvalidCredential
	// for one that fails verification.
	Verify(ctx context.Context, credential string) (Identity, error)
}

// Config holds the parameters for a Provider.
type Config struct {
	// Store persists accounts and credential digests. Required.
	Store *store.Store

	// Clock supplies issuance and expiry times. Required.
	Clock clock.Clock

	// TokenTTL is the credential lifetime. Defaults to
	// DefaultTokenTTL if zero.
	TokenTTL time.Duration

	// BcryptCost overrides the password hash cost. Defaults to
	// bcrypt.DefaultCost if zero; tests use bcrypt.MinCost.
	BcryptCost int
}

// Provider registers accounts, checks passwords, and issues/verifies
// bearer tokens. Implements Verifier.
type Provider struct {
	store    *store.Store
	clock    clock.Clock
	tokenTTL time.Duration
	cost     int
}

// NewProvider validates the configuration and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("auth: Store is required")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("auth: Clock is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{store: cfg.Store, clock: cfg.Clock, tokenTTL: ttl, cost: cost}, nil
}

// Register creates an account and issues its first credential.
// Duplicate emails yield store.ErrEmailTaken.
func (p *Provider) Register(ctx context.Context, email, password string) (Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Identity{}, "", &task.ValidationError{Message: "A valid email is required"}
	}
	if len(password) < minPasswordLen {
		return Identity{}, "", &task.ValidationError{Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLen)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return Identity{}, "", fmt.Errorf("auth: hash password: %w", err)
	}

	account, err := p.store.CreateAccount(ctx, email, string(hash))
	if err != nil {
		return Identity{}, "", err
	}

	return p.issue(ctx, account)
}

// Login checks the password for email and issues a fresh credential.
func (p *Provider) Login(ctx context.Context, email, password string) (Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := p.store.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return Identity{}, "", ErrInvalidLogin
		}
		return Identity{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Identity{}, "", ErrInvalidLogin
	}

	return p.issue(ctx, account)
}

// Verify implements Verifier. Pure lookup, no side effects.
func (p *Provider) Verify(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, task.ErrUnauthenticated
	}

	account, err := p.store.CredentialAccount(ctx, digest(credential), p.clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrCredentialUnknown) {
			return Identity{}, task.ErrInvalidCredential
		}
		return Identity{}, err
	}
	return Identity{ID: account.ID, Email: account.Email}, nil
}

// issue mints a random token for account and stores its digest.
func (p *Provider) issue(ctx context.Context, account store.Account) (Identity, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return Identity{}, "", fmt.Errorf("auth: token entropy: %w", err)
	}
	token := hex.EncodeToString(raw)

	issued := p.clock.Now()
	if err := p.store.InsertCredential(ctx, digest(token), account.ID, issued, issued.Add(p.tokenTTL)); err != nil {
		return Identity{}, "", err
	}
	return Identity{ID: account.ID, Email: account.Email}, token, nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
