package service

import "errors"

// Service errors. NotFound and invalid-state failures are business-rule
// outcomes and propagate to the transport layer unchanged; anything else is
// a wrapped infrastructure error.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrBookAlreadyLoaned = errors.New("book already on loan")
	ErrNoActiveLoan      = errors.New("no matching active loan")
	ErrEmptyUserName     = errors.New("user name is required")
	ErrEmptyBookName     = errors.New("book name is required")
	ErrInvalidCategory   = errors.New("invalid book category")
	ErrNegativeAge       = errors.New("age must not be negative")
)
