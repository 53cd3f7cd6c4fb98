// Package postgresql is the remote HR data service backed by PostgreSQL through pgx.
package postgresql

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/hrdata"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// Store implements hrdata.Service. Status changes are conditional updates, so a stale
// read never overwrites a concurrent transition.
type Store struct {
	db *database.DB
}

var _ hrdata.Service = (*Store)(nil)

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates missing tables and indexes. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// conditions accumulates WHERE clauses with positional arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends a clause written with a single %d placeholder for the argument position.
func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

const invalidTextRepresentation = "22P02"

// notFound maps a missing row, or an id that is not a valid UUID, to sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return sentinel
	}
	return err
}
