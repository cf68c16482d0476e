// Package units converts ingredient quantities between measurement units.
// Units are grouped in three disjoint categories (weight, volume, count);
// conversions only happen inside weight and volume, count units are
// identity-only. Every stock quantity in the system carries its unit and
// callers convert explicitly through Convert.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a measurement unit stored alongside every quantity.
type Unit string

const (
	Kilogram   Unit = "kg"
	Gram       Unit = "g"
	Liter      Unit = "lt"
	Milliliter Unit = "ml"
	Piece      Unit = "piece"
	Portion    Unit = "portion"
)

// Category is the dimension a unit measures.
type Category string

const (
	Weight  Category = "weight"
	Volume  Category = "volume"
	Count   Category = "count"
	Unknown Category = "unknown"
)

// ErrIncompatibleUnits is matched by every *ConversionError.
var ErrIncompatibleUnits = errors.New("incompatible units")

// ConversionError names both units and their categories.
type ConversionError struct {
	From         Unit
	To           Unit
	FromCategory Category
	ToCategory   Category
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s)", e.From, e.FromCategory, e.To, e.ToCategory)
}

func (e *ConversionError) Unwrap() error { return ErrIncompatibleUnits }

var thousand = decimal.NewFromInt(1000)

// toBase maps each convertible unit to its factor relative to the smallest
// unit of its category (g for weight, ml for volume).
var toBase = map[Unit]decimal.Decimal{
	Kilogram:   thousand,
	Gram:       decimal.NewFromInt(1),
	Liter:      thousand,
	Milliliter: decimal.NewFromInt(1),
}

var categories = map[Unit]Category{
	Kilogram:   Weight,
	Gram:       Weight,
	Liter:      Volume,
	Milliliter: Volume,
	Piece:      Count,
	Portion:    Count,
}

var aliases = map[string]Unit{
	"kg":      Kilogram,
	"kilo":    Kilogram,
	"g":       Gram,
	"gr":      Gram,
	"lt":      Liter,
	"l":       Liter,
	"litro":   Liter,
	"ml":      Milliliter,
	"piece":   Piece,
	"pieza":   Piece,
	"pza":     Piece,
	"pc":      Piece,
	"portion": Portion,
	"porcion": Portion,
}

// All returns the supported units in a stable order.
func All() []Unit {
	return []Unit{Kilogram, Gram, Liter, Milliliter, Piece, Portion}
}

// Parse normalizes user input into a supported Unit.
func Parse(s string) (Unit, error) {
	u, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unsupported unit %q", s)
	}
	return u, nil
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	_, ok := categories[u]
	return ok
}

// CategoryOf returns the category of u, Unknown for unsupported units.
func CategoryOf(u Unit) Category {
	if c, ok := categories[u]; ok {
		return c
	}
	return Unknown
}

// Compatible reports whether Convert(x, a, b) can succeed.
func Compatible(a, b Unit) bool {
	if a == b {
		return a.Valid()
	}
	_, okA := toBase[a]
	_, okB := toBase[b]
	return okA && okB && CategoryOf(a) == CategoryOf(b)
}

// Convert expresses qty, measured in from, in the unit to.
func Convert(qty decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if !Compatible(from, to) {
		return decimal.Zero, &ConversionError{
			From:         from,
			To:           to,
			FromCategory: CategoryOf(from),
			ToCategory:   CategoryOf(to),
		}
	}
	if from == to {
		return qty, nil
	}
	return qty.Mul(toBase[from]).Div(toBase[to]), nil
}
