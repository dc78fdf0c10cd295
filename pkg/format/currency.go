// Package format renders numbers for human-readable output.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := groupThousands(math.Abs(amount), 2)
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Units returns a whole-unit count with thousands separators (e.g., "20,000").
func Units(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + groupThousands(math.Abs(amount), 0)
}

// Percent returns a percentage with two decimals (e.g., "27.22%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func groupThousands(value float64, decimals int) string {
	formatted := fmt.Sprintf("%.*f", decimals, value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
