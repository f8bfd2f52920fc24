package utils

import "fmt"

// FormatOrderNumber zero-pads a per-store sequence value to at least six digits.
func FormatOrderNumber(seq int) string {
	return fmt.Sprintf("%06d", seq)
}
