package entities

import (
	"strings"
	"time"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// EntryFilter narrows an entry listing. Zero values mean "no constraint".
// From and To are inclusive calendar days.
type EntryFilter struct {
	UserID        uint
	Category      Category
	Tag           string
	ImportantOnly bool
	From          time.Time
	To            time.Time
	Query         string
	Limit         int
	Offset        int
}

// Normalize clamps paging values and trims free-text fields.
func (f EntryFilter) Normalize() EntryFilter {
	f.Tag = strings.TrimSpace(f.Tag)
	f.Query = strings.TrimSpace(f.Query)
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches reports whether the entry satisfies every constraint except paging.
// The SQL store mirrors these rules in its WHERE clause.
func (f EntryFilter) Matches(e Entry) bool {
	if e.UserID != f.UserID {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.ImportantOnly && !e.IsImportant {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if f.Tag != "" && !hasTag(e.Tags, f.Tag) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		haystack := strings.ToLower(e.Title + "\n" + e.Description + "\n" + strings.Join(e.Tags, "\n"))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// EntryLess orders entries newest first, breaking ties by ID.
func EntryLess(a, b Entry) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID > b.ID
}
