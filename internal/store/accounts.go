package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Account is a stored account record. PasswordHash is a bcrypt hash
// and never leaves the auth package.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Account lookup errors. The auth package translates these into the
// request-facing taxonomy.
var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrAccountNotFound   = errors.New("account not found")
	ErrCredentialUnknown = errors.New("credential not found or expired")
)

// CreateAccount inserts a new account and returns it. Emails are
// unique; a duplicate yields ErrEmailTaken.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) (Account, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return Account{}, err
	}
	defer s.pool.Put(conn)

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{a.ID, a.Email, a.PasswordHash, a.CreatedAt.UnixMilli()},
		})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return Account{}, ErrEmailTaken
		}
		return Account{}, fmt.Errorf("store: insert account: %w", err)
	}
	return a, nil
}

// AccountByEmail looks up an account by email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return Account{}, err
	}
	defer s.pool.Put(conn)

	var a Account
	found := false
	err = sqlitex.Execute(conn,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`,
		&sqlitex.ExecOptions{
			Args: []any{email},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				a = scanAccount(stmt)
				found = true
				return nil
			},
		})
	if err != nil {
		return Account{}, fmt.Errorf("store: find account: %w", err)
	}
	if !found {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

// InsertCredential records an issued bearer token. Only the digest of
// the token is stored.
func (s *Store) InsertCredential(ctx context.Context, tokenHash, accountID string, issuedAt, expiresAt time.Time) error {
	conn, err := s.take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO credentials (token_hash, account_id, issued_at, expires_at) VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{tokenHash, accountID, issuedAt.UnixMilli(), expiresAt.UnixMilli()},
		})
	if err != nil {
		return fmt.Errorf("store: insert credential: %w", err)
	}
	return nil
}

// CredentialAccount resolves a token digest to its account in one
// query, expiry check included. Unknown and expired digests are both
// ErrCredentialUnknown.
func (s *Store) CredentialAccount(ctx context.Context, tokenHash string, now time.Time) (Account, error) {
	conn, err := s.take(ctx)
	if err != nil {
		return Account{}, err
	}
	defer s.pool.Put(conn)

	var a Account
	found := false
	err = sqlitex.Execute(conn,
		`SELECT a.id, a.email, a.password_hash, a.created_at
		 FROM credentials c JOIN accounts a ON a.id = c.account_id
		 WHERE c.token_hash = ? AND c.expires_at > ?`,
		&sqlitex.ExecOptions{
			Args: []any{tokenHash, now.UnixMilli()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				a = scanAccount(stmt)
				found = true
				return nil
			},
		})
	if err != nil {
		return Account{}, fmt.Errorf("store: resolve credential: %w", err)
	}
	if !found {
		return Account{}, ErrCredentialUnknown
	}
	return a, nil
}

func scanAccount(stmt *sqlite.Stmt) Account {
	return Account{
		ID:           stmt.ColumnText(0),
		Email:        stmt.ColumnText(1),
		PasswordHash: stmt.ColumnText(2),
		CreatedAt:    time.UnixMilli(stmt.ColumnInt64(3)).UTC(),
	}
}
