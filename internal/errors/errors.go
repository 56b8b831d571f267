// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingExpiration = errors.New("days to expiration is required")
	ErrNoSolution        = errors.New("no solution")
	ErrInvalidIndex      = errors.New("profile index out of range")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrChainEmpty        = errors.New("option chain is empty")
	ErrContractNotFound  = errors.New("no matching contract in chain")
)

// ValidationError represents an invalid pricing or leg parameter.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConvergenceError represents a numerical solver that found no solution.
// Callers must treat it as a hard failure, not a degraded value.
type ConvergenceError struct {
	Reason     string
	Iterations int
	LastGuess  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("no solution: %s (iterations: %d, last guess: %.6f)", e.Reason, e.Iterations, e.LastGuess)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoSolution
}

// NewConvergenceError creates a new ConvergenceError.
func NewConvergenceError(reason string, iterations int, lastGuess float64) *ConvergenceError {
	return &ConvergenceError{
		Reason:     reason,
		Iterations: iterations,
		LastGuess:  lastGuess,
	}
}

// ChainError represents an error while loading or querying an option chain.
type ChainError struct {
	Source  string
	Message string
	Err     error
}

func (e *ChainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chain error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("chain error [%s]: %s", e.Source, e.Message)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

// NewChainError creates a new ChainError.
func NewChainError(source, message string, err error) *ChainError {
	return &ChainError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
