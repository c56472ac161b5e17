package errors

import (
	"errors"
	"fmt"
)

// Domain errors. Every BusinessError wraps exactly one of these so callers can
// classify failures with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrAlreadySettled = errors.New("loan already fully paid")
	ErrExceedsBalance = errors.New("amount exceeds remaining balance")
	ErrPersistence    = errors.New("persistence failure")
	ErrCache          = errors.New("cache failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeAlreadySettled = "ALREADY_SETTLED"
	ErrCodeExceedsBalance = "EXCEEDS_BALANCE"
	ErrCodePersistence    = "PERSISTENCE_ERROR"
	ErrCodeCache          = "CACHE_ERROR"
)

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapNotFound(entity, id string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %s not found", entity, id),
		ErrNotFound,
	)
}

func WrapInvalidTransition(entity, from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidState,
		fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
		ErrInvalidState,
	)
}

func WrapInvalidState(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidState, message, ErrInvalidState)
}

func WrapAlreadySettled(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadySettled,
		fmt.Sprintf("Loan with ID %s is already fully paid", loanID),
		ErrAlreadySettled,
	)
}

func WrapExceedsBalance(amount, balance string) *BusinessError {
	return NewBusinessError(
		ErrCodeExceedsBalance,
		fmt.Sprintf("Amount %s exceeds remaining balance %s", amount, balance),
		ErrExceedsBalance,
	)
}

// WrapDatabaseError reports a store failure. The underlying driver error is
// kept in the chain next to ErrPersistence.
func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodePersistence,
		"database operation failed",
		fmt.Errorf("%w: %w", ErrPersistence, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCache,
		"cache operation failed",
		fmt.Errorf("%w: %w", ErrCache, err),
	)
}

// AsBusiness returns err unchanged when it already carries a BusinessError and
// wraps anything else as a persistence failure.
func AsBusiness(err error) error {
	if err == nil {
		return nil
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return err
	}
	return WrapDatabaseError(err)
}

// Code extracts the business code of err, or ErrCodePersistence for
// unclassified errors.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodePersistence
}
