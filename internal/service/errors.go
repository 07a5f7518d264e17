package service

import (
	"errors"
	"fmt"

	"go-estoque-condo/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrReferentialIntegrity = errors.New("record is referenced by output history")
	ErrDuplicateIdentifier  = errors.New("identifier already in use")
	ErrConcurrentUpdate     = errors.New("record changed concurrently, try again")

	ErrInvalidCredentials = errors.New("invalid username, email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidSession     = errors.New("session is invalid or expired")
	ErrSignupDisabled     = errors.New("sign up is disabled")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
)

// InsufficientStockError carries the amounts behind ErrInsufficientStock.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for '%s': requested %d, available %d", e.Product, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func validationError(data interface{}) error {
	if err := validator.Validate(data); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound maps a missing row to ErrNotFound and passes other errors through.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

// storeError maps unique violations to ErrDuplicateIdentifier.
func storeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, err.Error())
	}
	return err
}
