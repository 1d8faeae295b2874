// Package format renders numbers for reports and logs.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is printed in place of NaN, infinite or absent values.
const Missing = "—"

var printer = message.NewPrinter(language.English)

// Number formats v with a space thousands separator and fixed decimals.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	if decimals < 0 {
		decimals = 0
	}
	s := printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
	if s == "-0" || strings.HasPrefix(s, "-0.") && strings.Trim(s[3:], "0") == "" {
		s = s[1:]
	}
	return strings.ReplaceAll(s, ",", " ")
}

// WithUnit appends unit to a formatted number unless the value is missing.
func WithUnit(v float64, unit string, decimals int) string {
	s := Number(v, decimals)
	unit = strings.TrimSpace(unit)
	if unit == "" || s == Missing {
		return s
	}
	return s + " " + unit
}

// Optional formats a possibly absent value.
func Optional(v *float64, decimals int) string {
	if v == nil {
		return Missing
	}
	return Number(*v, decimals)
}

// Percent formats v with one decimal and a trailing " %".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return fmt.Sprintf("%.1f %%", v)
}

// Bool renders a flag the way reports print it.
func Bool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
