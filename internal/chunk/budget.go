package chunk

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidBudget marks a malformed or non-positive token budget.
var ErrInvalidBudget = errors.New("invalid chunk budget")

// ParseBudget parses a token budget such as "120000", "100k" or "1M".
// The k suffix scales by 1,000 and M by 1,000,000.
func ParseBudget(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidBudget)
	}

	scale := 1
	numStr := s
	switch s[len(s)-1] {
	case 'k', 'K':
		scale = 1000
		numStr = s[:len(s)-1]
	case 'M':
		scale = 1000000
		numStr = s[:len(s)-1]
	}

	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use a whole number with optional k or M suffix)", ErrInvalidBudget, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidBudget, s)
	}
	if n > math.MaxInt/scale {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidBudget, s)
	}
	return n * scale, nil
}

// ValidateBudget rejects zero and negative budgets.
func ValidateBudget(budget int) error {
	if budget <= 0 {
		return fmt.Errorf("%w: %d must be positive", ErrInvalidBudget, budget)
	}
	return nil
}
