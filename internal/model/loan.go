package model

import "time"

// LoanStatus is the lifecycle state of a loan record.
type LoanStatus string

const (
	LoanStatusOnLoan   LoanStatus = "ON_LOAN"
	LoanStatusReturned LoanStatus = "RETURNED"
)

// IsValid checks if the status is a known lifecycle state.
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusOnLoan || s == LoanStatusReturned
}

// LoanRecord links a user to a borrowed book title. The book name is a
// denormalized copy, not a reference to a catalog row. A record starts
// ON_LOAN and moves to RETURNED exactly once; a re-loan after return
// creates a fresh record.
type LoanRecord struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	BookName  string     `json:"book_name"`
	Status    LoanStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsReturned reports whether the record reached its terminal state.
func (l *LoanRecord) IsReturned() bool {
	return l.Status == LoanStatusReturned
}
