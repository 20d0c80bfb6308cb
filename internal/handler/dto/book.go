package dto

import "github.com/libraryapp/libraryapp/internal/model"

// BookRequest represents the request body for adding a book.
type BookRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// BookLoanRequest represents the request body for loaning a book.
type BookLoanRequest struct {
	UserName string `json:"user_name"`
	BookName string `json:"book_name"`
}

// BookReturnRequest represents the request body for returning a book.
type BookReturnRequest struct {
	UserName string `json:"user_name"`
	BookName string `json:"book_name"`
}

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ToBookResponse converts a Book model to BookResponse DTO.
func ToBookResponse(book *model.Book) *BookResponse {
	return &BookResponse{
		ID:       book.ID,
		Name:     book.Name,
		Category: string(book.Category),
	}
}

// LoanResponse represents a loan record in API responses.
type LoanResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	BookName string `json:"book_name"`
	Status   string `json:"status"`
}

// ToLoanResponse converts a LoanRecord model to LoanResponse DTO.
func ToLoanResponse(record *model.LoanRecord) *LoanResponse {
	return &LoanResponse{
		ID:       record.ID,
		UserID:   record.UserID,
		BookName: record.BookName,
		Status:   string(record.Status),
	}
}

// LoanCountResponse carries the number of outstanding loans.
type LoanCountResponse struct {
	Count int64 `json:"count"`
}

// BookStatResponse is one per-category count in the statistics response.
type BookStatResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ToBookStatResponse converts book stats to response DTOs.
func ToBookStatResponse(stats []model.BookStat) []BookStatResponse {
	out := make([]BookStatResponse, 0, len(stats))
	for _, stat := range stats {
		out = append(out, BookStatResponse{
			Category: string(stat.Category),
			Count:    stat.Count,
		})
	}
	return out
}
