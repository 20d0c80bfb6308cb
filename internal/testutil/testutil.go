// Package testutil provides helpers for integration and e2e tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/libraryapp/libraryapp/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 771177

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetLibrarySchema drops and recreates the users, books, and loan_records
// schema for tests. Down migrations apply in reverse order so foreign keys
// drop cleanly.
func ResetLibrarySchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	migrations := []string{
		"000001_users",
		"000002_books",
		"000003_loan_records",
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		downPath := filepath.Join(root, "migrations", migrations[i]+".down.sql")
		downSQL, err := os.ReadFile(downPath)
		if err != nil {
			return fmt.Errorf("read down migration %s: %w", migrations[i], err)
		}
		if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
			return fmt.Errorf("apply down migration %s: %w", migrations[i], err)
		}
	}

	for _, name := range migrations {
		upPath := filepath.Join(root, "migrations", name+".up.sql")
		upSQL, err := os.ReadFile(upPath)
		if err != nil {
			return fmt.Errorf("read up migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
			return fmt.Errorf("apply up migration %s: %w", name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	return &model.User{
		ID:        ulid.Make().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestUserWithAge creates a test user with an age.
func NewTestUserWithAge(t testing.TB, name string, age int) *model.User {
	t.Helper()
	user := NewTestUser(t, name)
	user.Age = &age
	return user
}

// NewTestBook creates a test book with sensible defaults.
func NewTestBook(t testing.TB, name string, category model.Category) *model.Book {
	t.Helper()
	return &model.Book{
		ID:        ulid.Make().String(),
		Name:      name,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestLoan creates a test loan record with status ON_LOAN.
func NewTestLoan(t testing.TB, userID, bookName string) *model.LoanRecord {
	t.Helper()
	now := time.Now().UTC()
	return &model.LoanRecord{
		ID:        ulid.Make().String(),
		UserID:    userID,
		BookName:  bookName,
		Status:    model.LoanStatusOnLoan,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
