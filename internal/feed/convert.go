package feed

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrCurrencyNotFound is returned when the document has no entry for a currency.
var ErrCurrencyNotFound = errors.New("currency not found in feed")

// ParseRate parses a comma-grouped decimal rate string.
// "45,983.3647" -> 45983.3647
// Only plain decimal notation is accepted; exponents such as "1e9" are rejected.
func ParseRate(rate string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(rate), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("parse rate %q: empty", rate)
	}
	if !isPlainDecimal(cleaned) {
		return decimal.Zero, fmt.Errorf("parse rate %q: not a plain decimal", rate)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	return d, nil
}

// isPlainDecimal reports whether s is an optional sign followed by digits with
// at most one decimal point and at least one digit.
func isPlainDecimal(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// Currency returns the entry for code.
func (cp *CurrentPrice) Currency(code string) (CurrencyBPI, error) {
	entry, ok := cp.BPI[code]
	if !ok {
		return CurrencyBPI{}, fmt.Errorf("%w: %s", ErrCurrencyNotFound, code)
	}
	return entry, nil
}

// Rate returns the parsed rate for code.
func (cp *CurrentPrice) Rate(code string) (decimal.Decimal, error) {
	entry, err := cp.Currency(code)
	if err != nil {
		return decimal.Zero, err
	}
	return ParseRate(entry.Rate)
}

// DisplaySymbol returns the currency symbol with HTML entities decoded ("&#36;" -> "$").
func (c CurrencyBPI) DisplaySymbol() string {
	return html.UnescapeString(c.Symbol)
}
