package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a timestamp in RFC3339 or "2006-01-02" format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// formatTime renders a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatNullTime renders an optional timestamp; the zero value stores NULL.
func formatNullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseDecimal(str string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse decimal: %w", err)
	}
	return v, nil
}

// parseNullDecimal converts a nullable text column into an optional decimal.
func parseNullDecimal(str sql.NullString) (decimal.NullDecimal, error) {
	if !str.Valid {
		return decimal.NullDecimal{}, nil
	}
	v, err := parseDecimal(str.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: v, Valid: true}, nil
}

// formatNullDecimal renders an optional decimal; absence stores NULL.
func formatNullDecimal(v decimal.NullDecimal) any {
	if !v.Valid {
		return nil
	}
	return v.Decimal.String()
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}
