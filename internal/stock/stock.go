// Package stock checks requested quantities against available stock and grades
// what a sale leaves behind.
package stock

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

// Policy controls how requested quantities are checked against stock and at
// which remaining levels warnings are raised.
type Policy struct {
	AllowNegativeStock bool
	WarningThreshold   int
	CriticalThreshold  int
}

// DefaultPolicy denies overselling and warns at 10 and 3 units.
func DefaultPolicy() Policy {
	return Policy{
		AllowNegativeStock: false,
		WarningThreshold:   10,
		CriticalThreshold:  3,
	}
}

// Result is the outcome of a stock check.
type Result struct {
	Valid     bool
	Message   string
	Available int
}

// Validate checks whether requested units can be taken from available stock.
func Validate(available, requested int, policy Policy) Result {
	if requested > available && !policy.AllowNegativeStock {
		return Result{
			Valid:     false,
			Message:   insufficientMessage(available),
			Available: available,
		}
	}
	return Result{Valid: true, Available: available}
}

func insufficientMessage(available int) string {
	if available <= 0 {
		return "Out of stock. Available: 0"
	}
	return fmt.Sprintf("Insufficient stock. Available: %d", available)
}

// Level describes how close remaining stock is to running out.
type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
	LevelOut      Level = "out"
)

// Classify grades remaining stock. minStock is the product's own low stock
// threshold; when set, reaching it is at least a warning.
func Classify(remaining int, minStock pgtype.Int4, policy Policy) Level {
	switch {
	case remaining <= 0:
		return LevelOut
	case remaining <= policy.CriticalThreshold:
		return LevelCritical
	case remaining <= policy.WarningThreshold:
		return LevelWarning
	case minStock.Valid && remaining <= int(minStock.Int32):
		return LevelWarning
	}
	return LevelOK
}
