package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	viewsPattern      = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(kk|k)?$`)
	leadingIntPattern = regexp.MustCompile(`^(\d+)\s*\p{L}`)
	percentPattern    = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*%`)
	datePattern       = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

func trimText(s string) string {
	return strings.TrimSpace(s)
}

// ParseViews parses a view counter with an optional thousands suffix:
// "230.1k" -> 230100, "1.9kk" -> 1900000, "1000" -> 1000. Values are
// rounded to the nearest integer. Anything non-numeric yields nil.
func ParseViews(s string) *int {
	s = strings.ToLower(trimText(s))
	m := viewsPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}

	switch m[2] {
	case "k":
		value *= 1_000
	case "kk":
		value *= 1_000_000
	}

	n := int(math.Round(value))
	return &n
}

// ParseCount parses a plain non-negative integer string. Anything else
// yields nil.
func ParseCount(s string) *int {
	s = trimText(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// ParseFlavorsCount extracts the leading integer from free text like
// "53 вкуса". The unit word is language-specific and ignored beyond
// requiring that one follows the number.
func ParseFlavorsCount(s string) *int {
	s = trimText(s)
	m := leadingIntPattern.FindStringSubmatch(s)
	if m == nil {
		// A bare number with no unit word still counts.
		return ParseCount(s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// ParseRating parses a decimal rating. Yields nil outside [0, 5].
func ParseRating(s string) *float64 {
	s = strings.ReplaceAll(trimText(s), ",", ".")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &v
}

// ParsePercentage parses a leading decimal followed by '%'. Yields nil for
// any other shape or a value outside [0, 100].
func ParsePercentage(s string) *float64 {
	m := percentPattern.FindStringSubmatch(trimText(s))
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || v < 0 || v > 100 {
		return nil
	}
	return &v
}

// ParseDate parses the source's fixed DD.MM.YYYY date format. Any other
// shape yields nil, never an error.
func ParseDate(s string) *time.Time {
	m := datePattern.FindStringSubmatch(trimText(s))
	if m == nil {
		return nil
	}
	t, err := time.Parse("02.01.2006", m[0])
	if err != nil {
		return nil
	}
	return &t
}

// ParseYear parses a 4-digit year. Yields nil for anything else.
func ParseYear(s string) *int {
	s = trimText(s)
	if len(s) != 4 {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
