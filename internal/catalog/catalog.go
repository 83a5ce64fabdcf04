package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no catalog entry matches the redemption code.
	ErrNotFound = errors.New("redemption code not found")

	// ErrCodeExists indicates the redemption code is already issued.
	ErrCodeExists = errors.New("redemption code already exists")
)

// Entry maps a redemption code to the activity it unlocks.
type Entry struct {
	Code          string
	ActivityTitle string
	CreatedAt     time.Time
}

// Catalog resolves and issues redemption codes.
type Catalog interface {
	FindByCode(ctx context.Context, code string) (Entry, error)
	Create(ctx context.Context, entry Entry) error
}

// PostgresCatalog stores redemption codes in PostgreSQL.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

// NewPostgresCatalog builds a Postgres-backed redemption catalog.
func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// FindByCode resolves a redemption code to its activity title.
func (c *PostgresCatalog) FindByCode(ctx context.Context, code string) (Entry, error) {
	row := c.db.QueryRow(ctx, `SELECT code, activity_title, created_at
        FROM redemption_codes WHERE code = $1`, code)
	var (
		entry     Entry
		createdAt time.Time
	)
	if err := row.Scan(&entry.Code, &entry.ActivityTitle, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	entry.CreatedAt = createdAt.UTC()
	return entry, nil
}

// Create issues a new redemption code.
func (c *PostgresCatalog) Create(ctx context.Context, entry Entry) error {
	cmd, err := c.db.Exec(ctx, `INSERT INTO redemption_codes (code, activity_title, created_at)
        VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`, entry.Code, entry.ActivityTitle, entry.CreatedAt.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCodeExists
	}
	return nil
}
