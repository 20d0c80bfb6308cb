package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libraryapp/libraryapp/internal/model"
)

// ErrUserNotFound is returned when no user matches the given id or name.
var ErrUserNotFound = errors.New("user not found")

// CreateUser inserts a new user into the directory.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, age, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Age,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ListUsers returns all users. Order is unspecified; callers must not
// depend on it.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, name, age, created_at
		FROM users
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Age, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// GetUserByName retrieves a user by name. If several users share the name,
// an arbitrary one is returned.
func (r *Repository) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	query := `
		SELECT id, name, age, created_at
		FROM users
		WHERE name = $1
		LIMIT 1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&user.ID,
		&user.Name,
		&user.Age,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	return &user, nil
}

// UpdateUserName overwrites the name of the user with the given id.
func (r *Repository) UpdateUserName(ctx context.Context, id, name string) error {
	query := `
		UPDATE users
		SET name = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("failed to update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUserByName removes the user with the given name together with their
// loan records. The user owns its records, so the records go first; both
// deletes commit in one transaction.
func (r *Repository) DeleteUserByName(ctx context.Context, name string) error {
	user, err := r.GetUserByName(ctx, name)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM loan_records WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("failed to delete loan records: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user delete: %w", err)
	}

	return nil
}

// DeleteAllUsers removes every user and every loan record. Administrative
// operation for test environment resets; not routed.
func (r *Repository) DeleteAllUsers(ctx context.Context) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM loan_records`); err != nil {
		return fmt.Errorf("failed to delete loan records: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit users delete: %w", err)
	}

	return nil
}
