package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/libraryapp/libraryapp/internal/metrics"
	"github.com/libraryapp/libraryapp/internal/model"
	"github.com/libraryapp/libraryapp/internal/repository"
)

// LendingService handles catalog writes, the loan/return lifecycle, and
// aggregate statistics.
type LendingService struct {
	books   BookCatalog
	loans   LoanLedger
	users   UserDirectory
	stats   StatsCache
	metrics metrics.Recorder
}

// NewLendingService creates a new LendingService. The stats cache may be nil,
// in which case aggregate reads always hit the store.
func NewLendingService(books BookCatalog, loans LoanLedger, users UserDirectory, stats StatsCache, recorder metrics.Recorder) *LendingService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LendingService{
		books:   books,
		loans:   loans,
		users:   users,
		stats:   stats,
		metrics: recorder,
	}
}

// SaveBook adds a book to the catalog. An empty category defaults to
// UNSPECIFIED. Book names are not unique; copies are not modeled.
func (s *LendingService) SaveBook(ctx context.Context, name, category string) (*model.Book, error) {
	if name == "" {
		return nil, ErrEmptyBookName
	}

	cat, ok := model.ParseCategory(category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	book := &model.Book{
		ID:        generateULID(),
		Name:      name,
		Category:  cat,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}

	s.metrics.IncBookCreated()
	s.invalidateBookStats(ctx)

	return book, nil
}

// LoanBook lends a book to the named user. It fails with ErrUserNotFound if
// the user does not exist and with ErrBookAlreadyLoaned if the title has an
// active loan. The ledger check runs first; the partial unique index on
// active loans catches callers racing past it.
func (s *LendingService) LoanBook(ctx context.Context, userName, bookName string) (*model.LoanRecord, error) {
	user, err := s.resolveUser(ctx, userName)
	if err != nil {
		return nil, err
	}

	_, err = s.loans.GetActiveLoanByBookName(ctx, bookName)
	switch {
	case err == nil:
		s.metrics.IncLoanConflict()
		return nil, ErrBookAlreadyLoaned
	case errors.Is(err, repository.ErrLoanNotFound):
		// No active loan; proceed.
	default:
		return nil, fmt.Errorf("check active loan: %w", err)
	}

	now := time.Now().UTC()
	record := &model.LoanRecord{
		ID:        generateULID(),
		UserID:    user.ID,
		BookName:  bookName,
		Status:    model.LoanStatusOnLoan,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.loans.CreateLoan(ctx, record); err != nil {
		if errors.Is(err, repository.ErrActiveLoanExists) {
			s.metrics.IncLoanConflict()
			return nil, ErrBookAlreadyLoaned
		}
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.metrics.IncBookLoaned()
	s.invalidateLoanedCount(ctx)

	return record, nil
}

// ReturnBook marks the named user's active loan of the book as returned.
// It fails with ErrUserNotFound if the user does not exist and with
// ErrNoActiveLoan if the user has no ON_LOAN record for that title.
func (s *LendingService) ReturnBook(ctx context.Context, userName, bookName string) (*model.LoanRecord, error) {
	user, err := s.resolveUser(ctx, userName)
	if err != nil {
		return nil, err
	}

	records, err := s.loans.ListLoansByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	var active *model.LoanRecord
	for i := range records {
		if records[i].BookName == bookName && records[i].Status == model.LoanStatusOnLoan {
			active = &records[i]
			break
		}
	}
	if active == nil {
		return nil, ErrNoActiveLoan
	}

	if err := s.loans.MarkLoanReturned(ctx, active.ID); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			// Lost a race with a concurrent return of the same record.
			return nil, ErrNoActiveLoan
		}
		return nil, fmt.Errorf("mark loan returned: %w", err)
	}

	active.Status = model.LoanStatusReturned
	active.UpdatedAt = time.Now().UTC()

	s.metrics.IncBookReturned()
	s.invalidateLoanedCount(ctx)

	return active, nil
}

// CountLoanedBook returns the number of currently outstanding loans.
func (s *LendingService) CountLoanedBook(ctx context.Context) (int64, error) {
	if s.stats != nil {
		if count, err := s.stats.GetLoanedCount(ctx); err == nil {
			s.metrics.IncStatsCacheHit()
			return count, nil
		}
		s.metrics.IncStatsCacheMiss()
	}

	count, err := s.loans.CountLoansByStatus(ctx, model.LoanStatusOnLoan)
	if err != nil {
		return 0, fmt.Errorf("count loaned books: %w", err)
	}

	if s.stats != nil {
		_ = s.stats.SetLoanedCount(ctx, count)
	}

	return count, nil
}

// GetBookStatistics returns the number of books per category. Only observed
// categories appear; ordering is unspecified.
func (s *LendingService) GetBookStatistics(ctx context.Context) ([]model.BookStat, error) {
	if s.stats != nil {
		if stats, err := s.stats.GetBookStats(ctx); err == nil {
			s.metrics.IncStatsCacheHit()
			return stats, nil
		}
		s.metrics.IncStatsCacheMiss()
	}

	stats, err := s.books.CountBooksByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("book statistics: %w", err)
	}
	if stats == nil {
		stats = []model.BookStat{}
	}

	if s.stats != nil {
		_ = s.stats.SetBookStats(ctx, stats)
	}

	return stats, nil
}

// resolveUser maps a missing user to the service-level sentinel.
func (s *LendingService) resolveUser(ctx context.Context, userName string) (*model.User, error) {
	user, err := s.users.GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// Cache invalidation is best-effort; short TTLs bound staleness if it fails.
func (s *LendingService) invalidateBookStats(ctx context.Context) {
	if s.stats != nil {
		_ = s.stats.InvalidateBookStats(ctx)
	}
}

func (s *LendingService) invalidateLoanedCount(ctx context.Context) {
	if s.stats != nil {
		_ = s.stats.InvalidateLoanedCount(ctx)
	}
}

// generateULID returns a lexicographically sortable unique ID.
func generateULID() string {
	return ulid.Make().String()
}
