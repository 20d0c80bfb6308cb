package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/libraryapp/libraryapp/internal/model"
)

// Common errors for loan ledger operations.
var (
	ErrLoanNotFound = errors.New("loan record not found")

	// ErrActiveLoanExists is returned when an insert collides with the
	// partial unique index on active loans. It backs the service-level
	// duplicate-loan check against concurrent callers.
	ErrActiveLoanExists = errors.New("active loan already exists for book")
)

// CreateLoan inserts a new loan record with status ON_LOAN.
func (r *Repository) CreateLoan(ctx context.Context, record *model.LoanRecord) error {
	query := `
		INSERT INTO loan_records (id, user_id, book_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.BookName,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveLoanExists
		}
		return fmt.Errorf("failed to create loan record: %w", err)
	}

	return nil
}

// GetActiveLoanByBookName retrieves the ON_LOAN record for a book name.
// The partial unique index guarantees there is at most one.
func (r *Repository) GetActiveLoanByBookName(ctx context.Context, bookName string) (*model.LoanRecord, error) {
	query := `
		SELECT id, user_id, book_name, status, created_at, updated_at
		FROM loan_records
		WHERE book_name = $1 AND status = 'ON_LOAN'
	`

	var record model.LoanRecord
	err := r.pool.QueryRow(ctx, query, bookName).Scan(
		&record.ID,
		&record.UserID,
		&record.BookName,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get active loan: %w", err)
	}

	return &record, nil
}

// CountLoansByStatus returns the number of loan records with the given status.
func (r *Repository) CountLoansByStatus(ctx context.Context, status model.LoanStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM loan_records
		WHERE status = $1
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count loans by status: %w", err)
	}

	return count, nil
}

// ListLoansByUser returns all loan records owned by the given user.
func (r *Repository) ListLoansByUser(ctx context.Context, userID string) ([]model.LoanRecord, error) {
	query := `
		SELECT id, user_id, book_name, status, created_at, updated_at
		FROM loan_records
		WHERE user_id = $1
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans by user: %w", err)
	}
	defer rows.Close()

	var records []model.LoanRecord
	for rows.Next() {
		var record model.LoanRecord
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.BookName,
			&record.Status,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loan records: %w", err)
	}

	return records, nil
}

// MarkLoanReturned transitions the record from ON_LOAN to RETURNED.
// The status predicate makes the transition one-way: an already-returned
// record is reported as not found rather than silently re-returned.
func (r *Repository) MarkLoanReturned(ctx context.Context, id string) error {
	query := `
		UPDATE loan_records
		SET status = 'RETURNED', updated_at = $2
		WHERE id = $1 AND status = 'ON_LOAN'
	`

	tag, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark loan returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}

	return nil
}
