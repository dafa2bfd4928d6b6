package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// ParseAmount converts a decimal currency string ("450", "450.5", "450.50")
// into cents. Amounts are stored as integer cents to avoid floating point
// drift in money arithmetic.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperror.NewValidation("amount", "amount is required")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("amount", "amount must be a decimal number")
	}

	// ParseInt accepts a leading sign, which must not appear after the
	// decimal point ("4.-5" is malformed, not negative forty cents short).
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, apperror.NewValidation("amount", "amount must be a decimal number")
		}
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, apperror.NewValidation("amount", "amount must be a decimal number")
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, apperror.NewValidation("amount", "amount must be a decimal number")
		}
		cents = d
	default:
		return 0, apperror.NewValidation("amount", "amount supports at most 2 decimal places")
	}

	if units < 0 || strings.HasPrefix(whole, "-") {
		return 0, apperror.NewValidation("amount", "amount must not be negative")
	}
	return units*100 + cents, nil
}

// FormatAmount renders cents as a decimal currency string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
