package identity

import (
	"context"
	"errors"
)

// User is the identity attached to an authenticated request.
type User struct {
	ID    string
	Email string
}

// ErrNoEmail marks a resolved user without a usable email address.
// Purchase recording refuses to proceed in that case.
var ErrNoEmail = errors.New("no email resolved for user")

type ctxKey string

const userKey ctxKey = "user"

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey).(User)
	return u, ok
}
