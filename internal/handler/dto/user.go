// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/libraryapp/libraryapp/internal/model"
	"github.com/libraryapp/libraryapp/internal/service"
)

// UserCreateRequest represents the request body for registering a user.
type UserCreateRequest struct {
	Name string `json:"name"`
	Age  *int   `json:"age,omitempty"`
}

// UserUpdateRequest represents the request body for renaming a user.
type UserUpdateRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  *int   `json:"age,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:   user.ID,
		Name: user.Name,
		Age:  user.Age,
	}
}

// ToUserListResponse converts a slice of users to response DTOs.
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *ToUserResponse(&users[i]))
	}
	return out
}

// BookHistoryResponse is one borrowed title in a loan-history response.
type BookHistoryResponse struct {
	Name     string `json:"name"`
	IsReturn bool   `json:"is_return"`
}

// UserLoanHistoryResponse is one user's full loan history.
type UserLoanHistoryResponse struct {
	Name  string                `json:"name"`
	Books []BookHistoryResponse `json:"books"`
}

// ToUserLoanHistoryResponse converts service histories to response DTOs.
// Users without loans keep an empty (non-null) book list.
func ToUserLoanHistoryResponse(histories []service.UserLoanHistory) []UserLoanHistoryResponse {
	out := make([]UserLoanHistoryResponse, 0, len(histories))
	for _, history := range histories {
		books := make([]BookHistoryResponse, 0, len(history.Books))
		for _, book := range history.Books {
			books = append(books, BookHistoryResponse{
				Name:     book.BookName,
				IsReturn: book.Returned,
			})
		}
		out = append(out, UserLoanHistoryResponse{
			Name:  history.UserName,
			Books: books,
		})
	}
	return out
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
