package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

// Not-found errors.
var (
	ErrClientNotFound = errors.New("no such client")
	ErrBillNotFound   = errors.New("no such bill")
)

// Validation errors.
var (
	ErrBlankName        = errors.New("name must not be blank")
	ErrMultilineName    = errors.New("name must fit on one line")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// =============================================================================
// TIMESTAMPS
// =============================================================================

// TimestampLayout is the text form of a bill timestamp (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// FileStampLayout is the bill timestamp as used in exported file names.
const FileStampLayout = "2006-01-02_15-04-05"

// FormatTimestamp renders a bill timestamp using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string as local wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD HH:MM:SS", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// =============================================================================
// PRICES
// =============================================================================

// ParsePrice parses a non-negative decimal price such as "9.99" or "19.5".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativePrice, s)
	}
	return d, nil
}

// FormatPrice renders a price with exactly two fraction digits.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ValidateName rejects blank client and product names and names holding a
// line break. kind is used in the error message only.
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s %w", kind, ErrBlankName)
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%s %w", kind, ErrMultilineName)
	}
	return nil
}
