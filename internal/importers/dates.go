package importers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial day 0. Using 1899-12-30 rather than 1900-01-01 absorbs
// the phantom 1900-02-29 that spreadsheet formats carry for compatibility.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	minSerial  = 1
	maxSerial  = 100000
	minYear    = 1900
	pivotYear  = 50
	secondsDay = 86400
)

// genericLayouts are tried before the separator heuristics. Numeric dot and
// slash forms are left out on purpose so they always go day-first.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 2 2006",
	"Mon Jan 02 2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// NormalizeDate converts a cell value (string, number, nil) into a calendar
// date at 00:00 UTC. The second result is false when nothing matched.
func NormalizeDate(value any) (time.Time, bool) {
	s := strings.TrimSpace(cellString(value))
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n > minSerial && n < maxSerial {
			return fromSerial(n), true
		}
	}

	if t, ok := parseGeneric(s); ok {
		return t, true
	}

	switch {
	case strings.Contains(s, "."):
		return parseDayFirst(s, ".")
	case strings.Contains(s, "/"):
		parts, ok := splitThree(s, "/")
		if !ok {
			return time.Time{}, false
		}
		if t, ok := buildDate(parts[2], parts[1], parts[0]); ok {
			return t, true
		}
		return buildDate(parts[2], parts[0], parts[1])
	case strings.Contains(s, "-"):
		parts, ok := splitThree(s, "-")
		if !ok {
			return time.Time{}, false
		}
		if first, ok := leadingInt(parts[0]); ok && first > minYear {
			return buildDate(parts[0], parts[1], parts[2])
		}
		if third, ok := leadingInt(parts[2]); ok && third > minYear {
			return buildDate(parts[2], parts[1], parts[0])
		}
	}

	return time.Time{}, false
}

// IsAmbiguousDate reports whether a dot or slash separated value reads as two
// different real dates depending on whether day or month comes first.
func IsAmbiguousDate(value any) bool {
	s := strings.TrimSpace(cellString(value))
	sep := ""
	switch {
	case strings.Contains(s, "."):
		sep = "."
	case strings.Contains(s, "/"):
		sep = "/"
	default:
		return false
	}
	parts, ok := splitThree(s, sep)
	if !ok {
		return false
	}
	dayFirst, ok1 := buildDate(parts[2], parts[1], parts[0])
	monthFirst, ok2 := buildDate(parts[2], parts[0], parts[1])
	return ok1 && ok2 && !dayFirst.Equal(monthFirst)
}

func fromSerial(serial float64) time.Time {
	seconds := math.Round(serial * secondsDay)
	t := serialEpoch.Add(time.Duration(seconds) * time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseGeneric(s string) (time.Time, bool) {
	for _, layout := range genericLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() <= minYear {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseDayFirst(s, sep string) (time.Time, bool) {
	parts, ok := splitThree(s, sep)
	if !ok {
		return time.Time{}, false
	}
	return buildDate(parts[2], parts[1], parts[0])
}

func splitThree(s, sep string) ([]string, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return nil, false
	}
	return parts, true
}

// buildDate assembles a date from textual parts. Two-digit years pivot
// around 50; dates that do not exist on the calendar are rejected.
func buildDate(yearPart, monthPart, dayPart string) (time.Time, bool) {
	year, ok := leadingInt(yearPart)
	if !ok {
		return time.Time{}, false
	}
	month, ok := leadingInt(monthPart)
	if !ok {
		return time.Time{}, false
	}
	day, ok := leadingInt(dayPart)
	if !ok {
		return time.Time{}, false
	}

	if year < 100 {
		if year < pivotYear {
			year += 2000
		} else {
			year += 1900
		}
	}
	if year <= minYear || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// leadingInt reads the digits at the start of s, ignoring surrounding
// whitespace, so "2024 10:30" yields 2024.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// cellString renders a raw cell the way a user would have typed it.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}
