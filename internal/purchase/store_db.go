package purchase

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

// One statement per entry: the pgx extended protocol rejects
// multi-statement Exec calls.
var pgSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id    TEXT PRIMARY KEY,
	email TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS purchases (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id),
	product_code TEXT NOT NULL,
	product_name TEXT NOT NULL,
	price        DOUBLE PRECISION NOT NULL DEFAULT 0,
	image_url    TEXT NOT NULL DEFAULT '',
	purchased_at TIMESTAMPTZ NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS purchases_user_time
	ON purchases (user_id, purchased_at DESC)`}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		for _, stmt := range pgSchema {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Record(ctx context.Context, email string, p Purchase) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, email)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		`, p.UserID, email)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchases (id, user_id, product_code, product_name, price, image_url, purchased_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.UserID, p.ProductCode, p.ProductName, p.Price, p.ImageURL, p.PurchasedAt)
		if err != nil {
			return err
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Purchase, error) {
	var out []Purchase

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, user_id, product_code, product_name, price, image_url, purchased_at
			FROM purchases
			WHERE user_id = $1
			ORDER BY purchased_at DESC, id DESC
		`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanPurchases(rows)
		return err
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) DeleteByCode(ctx context.Context, userID, code string) ([]Purchase, error) {
	var out []Purchase

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, user_id, product_code, product_name, price, image_url, purchased_at
			FROM purchases
			WHERE user_id = $1 AND product_code = $2
			ORDER BY purchased_at DESC, id DESC
		`, userID, code)
		if err != nil {
			return err
		}
		out, err = scanPurchases(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(out) == 0 {
			return ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM purchases
			WHERE user_id = $1 AND product_code = $2
		`, userID, code)
		if err != nil {
			return err
		}

		return tx.Commit()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CountByProduct(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT product_code, COUNT(*)
			FROM purchases
			GROUP BY product_code
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				code string
				n    int
			)
			if err := rows.Scan(&code, &n); err != nil {
				return err
			}
			counts[code] = n
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return counts, nil
}

func scanPurchases(rows *sql.Rows) ([]Purchase, error) {
	out := make([]Purchase, 0, 8)
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProductCode, &p.ProductName, &p.Price, &p.ImageURL, &p.PurchasedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
