package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var reNumberish = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// decodeText returns UTF-8 text, reading invalid UTF-8 as Latin-1.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff")
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func splitTrim(line, sep string) []string {
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}

func isNumberish(token string) bool {
	return reNumberish.MatchString(strings.TrimSpace(token))
}

// parseNumber parses a cell as float; unparsable cells are NaN.
func parseNumber(s string, commaDecimal bool) float64 {
	s = cleanCell(s)
	if commaDecimal {
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInteger parses a cell holding an integral number.
func parseInteger(s string) (int, bool) {
	v := parseNumber(s, false)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// samples formats up to five offending values for diagnostics.
func samples(values []string) string {
	if len(values) > 5 {
		values = values[:5]
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return fmt.Sprintf("[%s]", strings.Join(quoted, ", "))
}
