package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account is a locally managed credential record. In deployments that
// front the API with an external identity provider this store goes
// unused; the middleware only cares about the bearer token.
type Account struct {
	ID        string
	Email     string
	Hash      []byte
	CreatedAt time.Time
}

type AccountStore interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, id, email, password string) error
	Verify(ctx context.Context, email, password string) (Account, error)
}
