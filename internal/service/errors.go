package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers rows that are absent or owned by another tenant.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is matched by every *InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidTransition rejects a purchase order operation from the wrong state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrValidation marks malformed input caught by the service layer.
	ErrValidation = errors.New("validation failed")
)

// InsufficientStockError is raised in strict mode when a deduction would
// take an ingredient below zero. No stock has been written when it surfaces.
type InsufficientStockError struct {
	Ingredient string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %s, available %s",
		e.Ingredient, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
