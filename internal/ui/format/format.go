// Package format renders token counts and related figures for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokens compacts a token count for dashboard tiles and table cells.
// Millions and thousands get one decimal place with an M or K suffix,
// anything below a thousand prints as-is.
func Tokens(n int64) string {
	switch {
	case n >= 1_000_000 || n <= -1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000 || n <= -1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Count prints an exact integer with thousand separators.
func Count(n int64) string {
	if n < 0 {
		return "-" + Count(-n)
	}

	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// Percent renders a share of a total as a percentage with one decimal.
// A zero total renders as 0.0% rather than dividing by zero.
func Percent(part, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
