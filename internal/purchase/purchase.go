package purchase

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound means no purchase row matched the (user, product code)
// pair on delete.
var ErrNotFound = errors.New("purchase not found")

// Purchase is one recorded buy. The price and image are denormalized
// from the catalog at purchase time so history survives catalog edits.
type Purchase struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Store owns the users and purchases relations. Record performs the
// user upsert and the purchase insert as one transaction; a failure of
// either leaves no partial write behind.
type Store interface {
	Ping(ctx context.Context) error
	Record(ctx context.Context, email string, p Purchase) error
	ListByUser(ctx context.Context, userID string) ([]Purchase, error)
	DeleteByCode(ctx context.Context, userID, code string) ([]Purchase, error)
	CountByProduct(ctx context.Context) (map[string]int, error)
}
