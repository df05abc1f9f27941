package identity

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const sqliteAccountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	pass_hash  BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// SQLiteStore backs the account store with an embedded database for
// development and tests. Conflict detection is select-then-insert
// rather than error-code sniffing; good enough for a single-writer dev
// setup.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, sqliteAccountsSchema)
		return err
	})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLiteStore) Create(ctx context.Context, id, email, password string) error {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var exists int
		err := s.db.QueryRowContext(ctx, `
			SELECT 1 FROM accounts WHERE email = ?
		`, email).Scan(&exists)
		if err == nil {
			return ErrEmailExists
		}
		if err != sql.ErrNoRows {
			return err
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO accounts (id, email, pass_hash, created_at)
			VALUES (?, ?, ?, ?)
		`, id, email, hash, time.Now().UTC())
		return err
	})
}

func (s *SQLiteStore) Verify(ctx context.Context, email, password string) (Account, error) {
	email = normalizeEmail(email)

	var a Account
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, email, pass_hash, created_at
			FROM accounts
			WHERE email = ?
		`, email).Scan(&a.ID, &a.Email, &a.Hash, &a.CreatedAt)
	})
	if err == sql.ErrNoRows {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(a.Hash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return a, nil
}
