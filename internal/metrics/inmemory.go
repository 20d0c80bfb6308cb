package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated     uint64 `json:"users_created"`
	UsersDeleted     uint64 `json:"users_deleted"`
	BooksCreated     uint64 `json:"books_created"`
	BooksLoaned      uint64 `json:"books_loaned"`
	BooksReturned    uint64 `json:"books_returned"`
	LoanConflicts    uint64 `json:"loan_conflicts"`
	StatsCacheHits   uint64 `json:"stats_cache_hits"`
	StatsCacheMisses uint64 `json:"stats_cache_misses"`
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated     uint64
	usersDeleted     uint64
	booksCreated     uint64
	booksLoaned      uint64
	booksReturned    uint64
	loanConflicts    uint64
	statsCacheHits   uint64
	statsCacheMisses uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:     atomic.LoadUint64(&m.usersCreated),
		UsersDeleted:     atomic.LoadUint64(&m.usersDeleted),
		BooksCreated:     atomic.LoadUint64(&m.booksCreated),
		BooksLoaned:      atomic.LoadUint64(&m.booksLoaned),
		BooksReturned:    atomic.LoadUint64(&m.booksReturned),
		LoanConflicts:    atomic.LoadUint64(&m.loanConflicts),
		StatsCacheHits:   atomic.LoadUint64(&m.statsCacheHits),
		StatsCacheMisses: atomic.LoadUint64(&m.statsCacheMisses),
	}
}

func (m *InMemoryRecorder) IncUserCreated()     { atomic.AddUint64(&m.usersCreated, 1) }
func (m *InMemoryRecorder) IncUserDeleted()     { atomic.AddUint64(&m.usersDeleted, 1) }
func (m *InMemoryRecorder) IncBookCreated()     { atomic.AddUint64(&m.booksCreated, 1) }
func (m *InMemoryRecorder) IncBookLoaned()      { atomic.AddUint64(&m.booksLoaned, 1) }
func (m *InMemoryRecorder) IncBookReturned()    { atomic.AddUint64(&m.booksReturned, 1) }
func (m *InMemoryRecorder) IncLoanConflict()    { atomic.AddUint64(&m.loanConflicts, 1) }
func (m *InMemoryRecorder) IncStatsCacheHit()   { atomic.AddUint64(&m.statsCacheHits, 1) }
func (m *InMemoryRecorder) IncStatsCacheMiss()  { atomic.AddUint64(&m.statsCacheMisses, 1) }
