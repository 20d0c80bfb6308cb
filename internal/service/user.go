package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libraryapp/libraryapp/internal/metrics"
	"github.com/libraryapp/libraryapp/internal/model"
	"github.com/libraryapp/libraryapp/internal/repository"
)

// UserService handles user CRUD and the per-user loan-history view.
type UserService struct {
	users   UserDirectory
	loans   LoanLedger
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users UserDirectory, loans LoanLedger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:   users,
		loans:   loans,
		metrics: recorder,
	}
}

// SaveUser registers a new user. Age is optional but must not be negative.
func (s *UserService) SaveUser(ctx context.Context, name string, age *int) (*model.User, error) {
	if name == "" {
		return nil, ErrEmptyUserName
	}
	if age != nil && *age < 0 {
		return nil, ErrNegativeAge
	}

	user := &model.User{
		ID:        generateULID(),
		Name:      name,
		Age:       age,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.metrics.IncUserCreated()

	return user, nil
}

// GetUsers returns all registered users. Order is unspecified.
func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// UpdateUserName renames the user with the given id. Fails with
// ErrUserNotFound if no such user exists.
func (s *UserService) UpdateUserName(ctx context.Context, id, name string) error {
	if name == "" {
		return ErrEmptyUserName
	}

	if err := s.users.UpdateUserName(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user name: %w", err)
	}

	return nil
}

// DeleteUser removes the named user and, first, every loan record they own.
// Fails with ErrUserNotFound if no such user exists.
func (s *UserService) DeleteUser(ctx context.Context, name string) error {
	if err := s.users.DeleteUserByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

// BookHistory is one borrowed title in a user's loan history.
type BookHistory struct {
	BookName string `json:"name"`
	Returned bool   `json:"is_return"`
}

// UserLoanHistory is a user together with every book they ever borrowed.
type UserLoanHistory struct {
	UserName string        `json:"name"`
	Books    []BookHistory `json:"books"`
}

// GetUserLoanHistories returns every user with their full loan history.
// Users with no loans appear with an empty book list.
func (s *UserService) GetUserLoanHistories(ctx context.Context) ([]UserLoanHistory, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	histories := make([]UserLoanHistory, 0, len(users))
	for _, user := range users {
		records, err := s.loans.ListLoansByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list loans for user %s: %w", user.ID, err)
		}

		books := make([]BookHistory, 0, len(records))
		for _, record := range records {
			books = append(books, BookHistory{
				BookName: record.BookName,
				Returned: record.IsReturned(),
			})
		}

		histories = append(histories, UserLoanHistory{
			UserName: user.Name,
			Books:    books,
		})
	}

	return histories, nil
}
