package service

import (
	"context"
	"errors"
	"testing"

	"github.com/libraryapp/libraryapp/internal/model"
)

func newLendingEnv() (*LendingService, *memStore, *fakeStatsCache) {
	store := newMemStore()
	stats := &fakeStatsCache{}
	svc := NewLendingService(store, store, store, stats, nil)
	return svc, store, stats
}

func TestSaveBook(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	book, err := svc.SaveBook(ctx, "Alice in Wonderland", "COMPUTER")
	if err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}

	if book.ID == "" {
		t.Error("book ID should be generated")
	}
	if book.Name != "Alice in Wonderland" {
		t.Errorf("Name = %q, want %q", book.Name, "Alice in Wonderland")
	}
	if book.Category != model.CategoryComputer {
		t.Errorf("Category = %q, want %q", book.Category, model.CategoryComputer)
	}
	if len(store.books) != 1 {
		t.Fatalf("catalog has %d books, want 1", len(store.books))
	}
}

func TestSaveBook_DefaultCategory(t *testing.T) {
	svc, _, _ := newLendingEnv()

	book, err := svc.SaveBook(context.Background(), "Untagged", "")
	if err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}
	if book.Category != model.CategoryUnspecified {
		t.Errorf("Category = %q, want %q", book.Category, model.CategoryUnspecified)
	}
}

func TestSaveBook_ValidationErrors(t *testing.T) {
	svc, _, _ := newLendingEnv()
	ctx := context.Background()

	tests := []struct {
		name     string
		bookName string
		category string
		wantErr  error
	}{
		{"empty_name", "", "COMPUTER", ErrEmptyBookName},
		{"unknown_category", "Some Book", "COOKING", ErrInvalidCategory},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.SaveBook(ctx, test.bookName, test.category)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestSaveBook_InvalidatesStatsCache(t *testing.T) {
	svc, _, stats := newLendingEnv()

	if _, err := svc.SaveBook(context.Background(), "A", "ART"); err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}
	if stats.statsInvalidations != 1 {
		t.Errorf("stats invalidations = %d, want 1", stats.statsInvalidations)
	}
}

func TestLoanBook(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	age := 32
	jane := &model.User{ID: generateULID(), Name: "Jane", Age: &age}
	if err := store.CreateUser(ctx, jane); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	record, err := svc.LoanBook(ctx, "Jane", "Alice in Wonderland")
	if err != nil {
		t.Fatalf("LoanBook failed: %v", err)
	}

	if len(store.loans) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(store.loans))
	}
	if record.BookName != "Alice in Wonderland" {
		t.Errorf("BookName = %q, want %q", record.BookName, "Alice in Wonderland")
	}
	if record.UserID != jane.ID {
		t.Errorf("UserID = %q, want %q", record.UserID, jane.ID)
	}
	if record.Status != model.LoanStatusOnLoan {
		t.Errorf("Status = %q, want %q", record.Status, model.LoanStatusOnLoan)
	}
}

func TestLoanBook_UserNotFound(t *testing.T) {
	svc, _, _ := newLendingEnv()

	_, err := svc.LoanBook(context.Background(), "Nobody", "Alice in Wonderland")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLoanBook_AlreadyLoaned(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	for _, name := range []string{"Jane", "June"} {
		if err := store.CreateUser(ctx, &model.User{ID: generateULID(), Name: name}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	if _, err := svc.LoanBook(ctx, "Jane", "Alice in Wonderland"); err != nil {
		t.Fatalf("first loan failed: %v", err)
	}

	_, err := svc.LoanBook(ctx, "June", "Alice in Wonderland")
	if !errors.Is(err, ErrBookAlreadyLoaned) {
		t.Fatalf("expected ErrBookAlreadyLoaned, got %v", err)
	}

	if len(store.loans) != 1 {
		t.Errorf("ledger has %d records, want 1", len(store.loans))
	}
	if store.activeLoanCount("Alice in Wonderland") != 1 {
		t.Errorf("active loans = %d, want 1", store.activeLoanCount("Alice in Wonderland"))
	}
}

func TestLoanBook_ConcurrentInsertBackstop(t *testing.T) {
	// The ledger lookup reports no active loan, but the insert collides with
	// the uniqueness constraint. The caller must still see the invalid-state
	// error, not an infrastructure failure.
	store := newMemStore()
	svc := NewLendingService(store, &racingLedger{store}, store, &fakeStatsCache{}, nil)
	ctx := context.Background()

	for _, name := range []string{"Jane", "June"} {
		if err := store.CreateUser(ctx, &model.User{ID: generateULID(), Name: name}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	if _, err := svc.LoanBook(ctx, "Jane", "Alice in Wonderland"); err != nil {
		t.Fatalf("first loan failed: %v", err)
	}

	_, err := svc.LoanBook(ctx, "June", "Alice in Wonderland")
	if !errors.Is(err, ErrBookAlreadyLoaned) {
		t.Fatalf("expected ErrBookAlreadyLoaned, got %v", err)
	}
	if store.activeLoanCount("Alice in Wonderland") != 1 {
		t.Errorf("active loans = %d, want 1", store.activeLoanCount("Alice in Wonderland"))
	}
}

func TestReturnBook(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	if err := store.CreateUser(ctx, &model.User{ID: generateULID(), Name: "Jane"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := svc.LoanBook(ctx, "Jane", "Alice in Wonderland"); err != nil {
		t.Fatalf("loan failed: %v", err)
	}

	record, err := svc.ReturnBook(ctx, "Jane", "Alice in Wonderland")
	if err != nil {
		t.Fatalf("ReturnBook failed: %v", err)
	}
	if record.Status != model.LoanStatusReturned {
		t.Errorf("Status = %q, want %q", record.Status, model.LoanStatusReturned)
	}

	if len(store.loans) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(store.loans))
	}
	if store.loans[0].Status != model.LoanStatusReturned {
		t.Errorf("stored status = %q, want %q", store.loans[0].Status, model.LoanStatusReturned)
	}

	count, err := svc.CountLoanedBook(ctx)
	if err != nil {
		t.Fatalf("CountLoanedBook failed: %v", err)
	}
	if count != 0 {
		t.Errorf("loaned count = %d, want 0", count)
	}
}

func TestReturnBook_UserNotFound(t *testing.T) {
	svc, _, _ := newLendingEnv()

	_, err := svc.ReturnBook(context.Background(), "Nobody", "Alice in Wonderland")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReturnBook_NoActiveLoan(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	if err := store.CreateUser(ctx, &model.User{ID: generateULID(), Name: "Jane"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, err := svc.ReturnBook(ctx, "Jane", "Alice in Wonderland")
	if !errors.Is(err, ErrNoActiveLoan) {
		t.Errorf("expected ErrNoActiveLoan, got %v", err)
	}
}

func TestReturnBook_AlreadyReturned(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	if err := store.CreateUser(ctx, &model.User{ID: generateULID(), Name: "Jane"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := svc.LoanBook(ctx, "Jane", "Alice in Wonderland"); err != nil {
		t.Fatalf("loan failed: %v", err)
	}
	if _, err := svc.ReturnBook(ctx, "Jane", "Alice in Wonderland"); err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	_, err := svc.ReturnBook(ctx, "Jane", "Alice in Wonderland")
	if !errors.Is(err, ErrNoActiveLoan) {
		t.Errorf("expected ErrNoActiveLoan on second return, got %v", err)
	}
}

func TestCountLoanedBook(t *testing.T) {
	svc, store, _ := newLendingEnv()
	ctx := context.Background()

	user := &model.User{ID: generateULID(), Name: "Jane"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	seed := []model.LoanRecord{
		{ID: generateULID(), UserID: user.ID, BookName: "A", Status: model.LoanStatusOnLoan},
		{ID: generateULID(), UserID: user.ID, BookName: "B", Status: model.LoanStatusReturned},
		{ID: generateULID(), UserID: user.ID, BookName: "C", Status: model.LoanStatusReturned},
	}
	for i := range seed {
		if err := store.CreateLoan(ctx, &seed[i]); err != nil {
			t.Fatalf("seed loan: %v", err)
		}
	}

	count, err := svc.CountLoanedBook(ctx)
	if err != nil {
		t.Fatalf("CountLoanedBook failed: %v", err)
	}
	if count != 1 {
		t.Errorf("loaned count = %d, want 1", count)
	}
}

func TestCountLoanedBook_CacheHit(t *testing.T) {
	svc, store, stats := newLendingEnv()
	ctx := context.Background()

	user := &model.User{ID: generateULID(), Name: "Jane"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	record := model.LoanRecord{ID: generateULID(), UserID: user.ID, BookName: "A", Status: model.LoanStatusOnLoan}
	if err := store.CreateLoan(ctx, &record); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	// Cached value wins over the ledger while the cache entry lives.
	if err := stats.SetLoanedCount(ctx, 7); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	count, err := svc.CountLoanedBook(ctx)
	if err != nil {
		t.Fatalf("CountLoanedBook failed: %v", err)
	}
	if count != 7 {
		t.Errorf("loaned count = %d, want cached 7", count)
	}
}

func TestGetBookStatistics(t *testing.T) {
	svc, _, stats := newLendingEnv()
	ctx := context.Background()

	seed := []struct {
		name     string
		category string
	}{
		{"A", "COMPUTER"},
		{"B", "COMPUTER"},
		{"C", "SCIENCE"},
	}
	for _, book := range seed {
		if _, err := svc.SaveBook(ctx, book.name, book.category); err != nil {
			t.Fatalf("seed book: %v", err)
		}
	}

	results, err := svc.GetBookStatistics(ctx)
	if err != nil {
		t.Fatalf("GetBookStatistics failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d stats, want 2", len(results))
	}
	assertStatCount(t, results, model.CategoryComputer, 2)
	assertStatCount(t, results, model.CategoryScience, 1)

	// The computed result is cached for the next read.
	if !stats.hasStats {
		t.Error("statistics should be cached after a miss")
	}
}

func TestGetBookStatistics_EmptyCatalog(t *testing.T) {
	svc, _, _ := newLendingEnv()

	results, err := svc.GetBookStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetBookStatistics failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d stats, want 0", len(results))
	}
}

func assertStatCount(t *testing.T, stats []model.BookStat, category model.Category, want int64) {
	t.Helper()
	for _, stat := range stats {
		if stat.Category == category {
			if stat.Count != want {
				t.Errorf("count for %s = %d, want %d", category, stat.Count, want)
			}
			return
		}
	}
	t.Errorf("no stat entry for category %s", category)
}
