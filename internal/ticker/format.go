package ticker

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// DigitCount is the number of columns in the display.
const DigitCount = 8

var (
	ErrPriceOverflow = errors.New("rounded price exceeds display width")
	ErrNegativePrice = errors.New("negative price")
	ErrInvalidPrice  = errors.New("price is not a finite number")
	ErrDigitRange    = errors.New("digit position out of range")
)

var maxDisplayable = decimal.New(1, DigitCount).Sub(decimal.NewFromInt(1)) // 99,999,999

// FormatDecimal rounds d half away from zero and zero-pads it to DigitCount digits.
// Prices that need more digits, or are negative, are rejected rather than truncated.
func FormatDecimal(d decimal.Decimal) (string, error) {
	// Integer digits before rounding; rounding adds at most one.
	intDigits := int64(d.Exponent()) + int64(d.NumDigits())
	switch {
	case intDigits > DigitCount+1:
		if d.IsNegative() {
			return "", fmt.Errorf("%w: %d integer digits", ErrNegativePrice, intDigits)
		}
		return "", fmt.Errorf("%w: %d integer digits", ErrPriceOverflow, intDigits)
	case intDigits < 0:
		// |d| < 0.1 rounds to zero.
		d = decimal.Zero
	}

	rounded := d.Round(0)
	if rounded.IsNegative() {
		return "", fmt.Errorf("%w: %s", ErrNegativePrice, d)
	}
	if rounded.GreaterThan(maxDisplayable) {
		return "", fmt.Errorf("%w: %s", ErrPriceOverflow, rounded)
	}
	return fmt.Sprintf("%0*d", DigitCount, rounded.IntPart()), nil
}

// FormatPrice is FormatDecimal for a float price.
func FormatPrice(price float64) (string, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return FormatDecimal(decimal.NewFromFloat(price))
}

// ExtractDigit parses the character at pos of s as a decimal digit.
// On any failure it returns 0 together with the reason.
func ExtractDigit(s string, pos int) (int, error) {
	if pos < 0 || pos >= len(s) {
		return 0, fmt.Errorf("%w: %d in %q", ErrDigitRange, pos, s)
	}

	d, err := strconv.Atoi(s[pos : pos+1])
	if err != nil {
		return 0, fmt.Errorf("parse digit at %d in %q: %w", pos, s, err)
	}
	return d, nil
}
