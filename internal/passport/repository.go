package passport

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no passport matches the requested code or id.
var ErrNotFound = errors.New("passport not found")

// Directory persists passports. UpdateCompletions replaces the whole
// completion list; concurrent writers are last-write-wins, there is no
// version token.
type Directory interface {
	Create(ctx context.Context, p Passport) error
	FindByCode(ctx context.Context, code string) (Passport, error)
	Get(ctx context.Context, id string) (Passport, error)
	UpdateCompletions(ctx context.Context, id string, completions []Completion) error
}

// PostgresDirectory implements Directory using PostgreSQL.
type PostgresDirectory struct {
	db *pgxpool.Pool
}

// NewPostgresDirectory builds a Postgres-backed passport directory.
func NewPostgresDirectory(db *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// Create inserts a new passport.
func (d *PostgresDirectory) Create(ctx context.Context, p Passport) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(p.Completions)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(ctx, `INSERT INTO passports (id, code, holder_name, completions, created_at)
        VALUES ($1, $2, $3, $4, $5)`, id, p.Code, p.HolderName, payload, p.CreatedAt.UTC())
	return err
}

// FindByCode fetches a passport by its holder-facing code.
func (d *PostgresDirectory) FindByCode(ctx context.Context, code string) (Passport, error) {
	row := d.db.QueryRow(ctx, `SELECT id, code, holder_name, completions, created_at
        FROM passports WHERE code = $1`, code)
	return scanPassport(row)
}

// Get fetches a passport by identifier.
func (d *PostgresDirectory) Get(ctx context.Context, id string) (Passport, error) {
	passportID, err := uuid.Parse(id)
	if err != nil {
		return Passport{}, ErrNotFound
	}
	row := d.db.QueryRow(ctx, `SELECT id, code, holder_name, completions, created_at
        FROM passports WHERE id = $1`, passportID)
	return scanPassport(row)
}

// UpdateCompletions replaces the stored completion list.
func (d *PostgresDirectory) UpdateCompletions(ctx context.Context, id string, completions []Completion) error {
	passportID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	payload, err := json.Marshal(completions)
	if err != nil {
		return err
	}
	cmd, err := d.db.Exec(ctx, `UPDATE passports SET completions = $1 WHERE id = $2`, payload, passportID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPassport(row pgx.Row) (Passport, error) {
	var (
		id        uuid.UUID
		payload   []byte
		createdAt time.Time
		p         Passport
	)
	if err := row.Scan(&id, &p.Code, &p.HolderName, &payload, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Passport{}, ErrNotFound
		}
		return Passport{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p.Completions); err != nil {
			return Passport{}, err
		}
	}
	p.ID = id.String()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
