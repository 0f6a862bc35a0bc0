package report

import (
	"math"
	"strconv"
)

// Placeholder replaces numbers that cannot be shown.
const Placeholder = "—"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func fixed(v float64, prec int) string {
	if !finite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// sci formats with three significant digits.
func sci(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'e', 2, 64)
}

// plain prints an input value as entered.
func plain(v float64) string {
	if !finite(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64, prec int) string {
	if v == nil {
		return Placeholder
	}
	return fixed(*v, prec)
}
