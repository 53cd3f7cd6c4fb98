package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/database"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a store connected to the database named by TEST_DATABASE_URL.
type TestDatabaseSetup struct {
	DB    *database.DB
	Store *postgresql.Store
}

// NewTestDatabase connects and applies the schema. Tests are skipped when TEST_DATABASE_URL is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	store := postgresql.NewStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))

	return &TestDatabaseSetup{DB: db, Store: store}
}

// NewBusinessID returns a fresh business id so tests never see each other's rows.
func NewBusinessID() string {
	return fmt.Sprintf("test-%s", uuid.NewString())
}

// TruncateAllTables removes every row from the HR tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"payroll_entries",
		"payroll_periods",
		"time_off_requests",
		"work_sessions",
		"schedules",
		"employees",
	}

	return postgresql.WithTransaction(ctx, t.DB, func(ctx context.Context) error {
		q := postgresql.GetQuerier(ctx, t.DB)
		for _, table := range tables {
			if _, err := q.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}
