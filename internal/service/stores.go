// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/libraryapp/libraryapp/internal/model"
)

// The services are written against narrow store interfaces so unit tests can
// substitute in-memory fakes. *repository.Repository satisfies all of them.

// UserDirectory stores users.
type UserDirectory interface {
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	UpdateUserName(ctx context.Context, id, name string) error
	DeleteUserByName(ctx context.Context, name string) error
}

// BookCatalog stores books and answers category aggregations.
type BookCatalog interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByName(ctx context.Context, name string) (*model.Book, error)
	CountBooksByCategory(ctx context.Context) ([]model.BookStat, error)
}

// LoanLedger stores loan records. It is a plain store plus query surface;
// the duplicate-loan check lives in LendingService so the check-then-act
// sequence stays in one auditable place.
type LoanLedger interface {
	CreateLoan(ctx context.Context, record *model.LoanRecord) error
	GetActiveLoanByBookName(ctx context.Context, bookName string) (*model.LoanRecord, error)
	CountLoansByStatus(ctx context.Context, status model.LoanStatus) (int64, error)
	ListLoansByUser(ctx context.Context, userID string) ([]model.LoanRecord, error)
	MarkLoanReturned(ctx context.Context, id string) error
}

// StatsCache caches the two aggregate reads. Implementations are best-effort;
// the services fall back to the stores on any cache failure.
type StatsCache interface {
	GetBookStats(ctx context.Context) ([]model.BookStat, error)
	SetBookStats(ctx context.Context, stats []model.BookStat) error
	InvalidateBookStats(ctx context.Context) error
	GetLoanedCount(ctx context.Context) (int64, error)
	SetLoanedCount(ctx context.Context, count int64) error
	InvalidateLoanedCount(ctx context.Context) error
}
