package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libraryapp/libraryapp/internal/model"
)

// ErrBookNotFound is returned when no book matches the given name.
var ErrBookNotFound = errors.New("book not found")

// CreateBook inserts a new book into the catalog. Names are not unique.
func (r *Repository) CreateBook(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, name, category, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Name,
		book.Category,
		book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetBookByName retrieves a book by name. Used as an existence check;
// if multiple rows share the name, any one is returned.
func (r *Repository) GetBookByName(ctx context.Context, name string) (*model.Book, error) {
	query := `
		SELECT id, name, category, created_at
		FROM books
		WHERE name = $1
		LIMIT 1
	`

	var book model.Book
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&book.ID,
		&book.Name,
		&book.Category,
		&book.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by name: %w", err)
	}

	return &book, nil
}

// CountBooksByCategory returns the number of books per category. Categories
// with no books do not appear in the result.
func (r *Repository) CountBooksByCategory(ctx context.Context) ([]model.BookStat, error) {
	query := `
		SELECT category, COUNT(*)
		FROM books
		GROUP BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count books by category: %w", err)
	}
	defer rows.Close()

	var stats []model.BookStat
	for rows.Next() {
		var stat model.BookStat
		if err := rows.Scan(&stat.Category, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan book stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book stats: %w", err)
	}

	return stats, nil
}

// DeleteAllBooks removes every book. Administrative operation for test
// environment resets; not routed.
func (r *Repository) DeleteAllBooks(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("failed to delete books: %w", err)
	}
	return nil
}
