package service

import (
	"context"
	"errors"

	"github.com/libraryapp/libraryapp/internal/model"
	"github.com/libraryapp/libraryapp/internal/repository"
)

var errCacheMiss = errors.New("cache miss")

// memStore is an in-memory stand-in for *repository.Repository. It returns
// the same sentinel errors and enforces the same at-most-one-active-loan
// rule as the partial unique index.
type memStore struct {
	users []model.User
	books []model.Book
	loans []model.LoanRecord
}

func newMemStore() *memStore {
	return &memStore{}
}

// UserDirectory

func (m *memStore) CreateUser(_ context.Context, user *model.User) error {
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memStore) GetUserByName(_ context.Context, name string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Name == name {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStore) UpdateUserName(_ context.Context, id, name string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Name = name
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *memStore) DeleteUserByName(_ context.Context, name string) error {
	for i := range m.users {
		if m.users[i].Name == name {
			id := m.users[i].ID
			kept := m.loans[:0]
			for _, loan := range m.loans {
				if loan.UserID != id {
					kept = append(kept, loan)
				}
			}
			m.loans = kept
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

// BookCatalog

func (m *memStore) CreateBook(_ context.Context, book *model.Book) error {
	m.books = append(m.books, *book)
	return nil
}

func (m *memStore) GetBookByName(_ context.Context, name string) (*model.Book, error) {
	for i := range m.books {
		if m.books[i].Name == name {
			book := m.books[i]
			return &book, nil
		}
	}
	return nil, repository.ErrBookNotFound
}

func (m *memStore) CountBooksByCategory(_ context.Context) ([]model.BookStat, error) {
	counts := make(map[model.Category]int64)
	for _, book := range m.books {
		counts[book.Category]++
	}
	stats := make([]model.BookStat, 0, len(counts))
	for category, count := range counts {
		stats = append(stats, model.BookStat{Category: category, Count: count})
	}
	return stats, nil
}

// LoanLedger

func (m *memStore) CreateLoan(_ context.Context, record *model.LoanRecord) error {
	for i := range m.loans {
		if m.loans[i].BookName == record.BookName && m.loans[i].Status == model.LoanStatusOnLoan {
			return repository.ErrActiveLoanExists
		}
	}
	m.loans = append(m.loans, *record)
	return nil
}

func (m *memStore) GetActiveLoanByBookName(_ context.Context, bookName string) (*model.LoanRecord, error) {
	for i := range m.loans {
		if m.loans[i].BookName == bookName && m.loans[i].Status == model.LoanStatusOnLoan {
			record := m.loans[i]
			return &record, nil
		}
	}
	return nil, repository.ErrLoanNotFound
}

func (m *memStore) CountLoansByStatus(_ context.Context, status model.LoanStatus) (int64, error) {
	var count int64
	for i := range m.loans {
		if m.loans[i].Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ListLoansByUser(_ context.Context, userID string) ([]model.LoanRecord, error) {
	var records []model.LoanRecord
	for i := range m.loans {
		if m.loans[i].UserID == userID {
			records = append(records, m.loans[i])
		}
	}
	return records, nil
}

func (m *memStore) MarkLoanReturned(_ context.Context, id string) error {
	for i := range m.loans {
		if m.loans[i].ID == id && m.loans[i].Status == model.LoanStatusOnLoan {
			m.loans[i].Status = model.LoanStatusReturned
			return nil
		}
	}
	return repository.ErrLoanNotFound
}

// activeLoanCount reports how many ON_LOAN records exist for a book name,
// for asserting the at-most-one invariant.
func (m *memStore) activeLoanCount(bookName string) int {
	count := 0
	for i := range m.loans {
		if m.loans[i].BookName == bookName && m.loans[i].Status == model.LoanStatusOnLoan {
			count++
		}
	}
	return count
}

// racingLedger wraps memStore but hides active loans from lookups, simulating
// a concurrent caller that slips between the check and the insert. The insert
// itself still enforces the constraint, like the database index does.
type racingLedger struct {
	*memStore
}

func (r *racingLedger) GetActiveLoanByBookName(context.Context, string) (*model.LoanRecord, error) {
	return nil, repository.ErrLoanNotFound
}

// fakeStatsCache is an in-memory StatsCache that records invalidations.
type fakeStatsCache struct {
	stats              []model.BookStat
	hasStats           bool
	loanedCount        int64
	hasLoanedCount     bool
	statsInvalidations int
	countInvalidations int
}

func (f *fakeStatsCache) GetBookStats(context.Context) ([]model.BookStat, error) {
	if !f.hasStats {
		return nil, errCacheMiss
	}
	return f.stats, nil
}

func (f *fakeStatsCache) SetBookStats(_ context.Context, stats []model.BookStat) error {
	f.stats = stats
	f.hasStats = true
	return nil
}

func (f *fakeStatsCache) InvalidateBookStats(context.Context) error {
	f.stats = nil
	f.hasStats = false
	f.statsInvalidations++
	return nil
}

func (f *fakeStatsCache) GetLoanedCount(context.Context) (int64, error) {
	if !f.hasLoanedCount {
		return 0, errCacheMiss
	}
	return f.loanedCount, nil
}

func (f *fakeStatsCache) SetLoanedCount(_ context.Context, count int64) error {
	f.loanedCount = count
	f.hasLoanedCount = true
	return nil
}

func (f *fakeStatsCache) InvalidateLoanedCount(context.Context) error {
	f.loanedCount = 0
	f.hasLoanedCount = false
	f.countInvalidations++
	return nil
}
