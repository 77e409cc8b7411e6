package service

import (
	"errors"
	"fmt"

	"classhub/internal/domain"
	"classhub/internal/repository"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUpstream      = errors.New("upstream service failed")
	ErrInvalidInput  = errors.New("invalid input")
)

var (
	ErrEmailExists     = fmt.Errorf("email already registered: %w", ErrAlreadyExists)
	ErrInvalidCreds    = errors.New("invalid email or password")
	ErrAccountDisabled = errors.New("account is disabled")
	ErrNotConnected    = fmt.Errorf("google account not connected: %w", ErrForbidden)
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool   { return a.Role == domain.RoleAdmin }
func (a Actor) IsTeacher() bool { return a.Role == domain.RoleTeacher }

// CanTeach reports whether the actor may run teacher operations.
func (a Actor) CanTeach() bool { return a.IsTeacher() || a.IsAdmin() }

// notFound maps gorm's not-found to ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func invalid(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
}
