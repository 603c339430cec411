package importers

import (
	"strings"
	"time"

	"github.com/mrlokans/commlog/internal/entities"
)

// RawRow is one unparsed data row keyed by lower-cased column header.
// Values are strings, float64 or bool depending on the source format.
type RawRow map[string]any

// Field names a canonical entry attribute that can be read from a row.
type Field string

const (
	FieldTitle            Field = "title"
	FieldDescription      Field = "description"
	FieldDate             Field = "date"
	FieldCategory         Field = "category"
	FieldTags             Field = "tags"
	FieldImportant        Field = "important"
	FieldInitiator        Field = "initiator"
	FieldMediationAttempt Field = "mediation_attempt"
	FieldChatExtract      Field = "chat_extract"
)

// FieldAliases lists the accepted headers per field, English first.
// Supporting another language means appending its headers here.
var FieldAliases = map[Field][]string{
	FieldTitle:            {"title", "titel"},
	FieldDescription:      {"description", "beschreibung"},
	FieldDate:             {"date", "datum"},
	FieldCategory:         {"category", "kategorie"},
	FieldTags:             {"tags", "schlagwörter", "schlagworte"},
	FieldImportant:        {"isimportant", "important", "wichtig"},
	FieldInitiator:        {"initiator", "initiiert von"},
	FieldMediationAttempt: {"mediationattempt", "mediation attempt", "vermittlungsversuch"},
	FieldChatExtract:      {"chatextract", "chat extract", "chatauszug"},
}

// Resolve returns the first non-blank value among the field's aliases, trimmed.
func Resolve(row RawRow, field Field) string {
	_, value := lookup(row, field)
	return strings.TrimSpace(cellString(value))
}

// lookup returns the raw cell behind the first non-blank alias.
func lookup(row RawRow, field Field) (string, any) {
	for _, header := range FieldAliases[field] {
		value, ok := row[header]
		if !ok {
			continue
		}
		if strings.TrimSpace(cellString(value)) == "" {
			continue
		}
		return header, value
	}
	return "", nil
}

var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
	"ja":   true,
	"j":    true,
	"x":    true,
	"wahr": true,
}

// ParsedEntryCandidate is a row after field, category and date normalization.
type ParsedEntryCandidate struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Category         entities.Category `json:"category"`
	Tags             []string          `json:"tags"`
	IsImportant      bool              `json:"is_important"`
	Date             time.Time         `json:"date"`
	Initiator        string            `json:"initiator,omitempty"`
	MediationAttempt string            `json:"mediation_attempt,omitempty"`
	ChatExtract      string            `json:"chat_extract,omitempty"`
}

// BuildCandidate maps a row onto entry fields. A missing or unreadable date
// becomes the calendar day of now.
func BuildCandidate(row RawRow, now time.Time) ParsedEntryCandidate {
	_, dateValue := lookup(row, FieldDate)
	date, ok := NormalizeDate(dateValue)
	if !ok {
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	return ParsedEntryCandidate{
		Title:            Resolve(row, FieldTitle),
		Description:      Resolve(row, FieldDescription),
		Category:         MapCategory(Resolve(row, FieldCategory)),
		Tags:             SplitTags(Resolve(row, FieldTags)),
		IsImportant:      parseImportant(row),
		Date:             date,
		Initiator:        Resolve(row, FieldInitiator),
		MediationAttempt: Resolve(row, FieldMediationAttempt),
		ChatExtract:      Resolve(row, FieldChatExtract),
	}
}

// ToEntry turns the candidate into an entry owned by userID.
func (c ParsedEntryCandidate) ToEntry(userID uint, now time.Time) *entities.Entry {
	return &entities.Entry{
		UserID:           userID,
		Title:            c.Title,
		Description:      c.Description,
		Category:         c.Category,
		Tags:             c.Tags,
		IsImportant:      c.IsImportant,
		Date:             c.Date,
		Initiator:        c.Initiator,
		MediationAttempt: c.MediationAttempt,
		ChatExtract:      c.ChatExtract,
		Attachments:      []entities.Attachment{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// SplitTags splits a comma-separated list, trimming items and dropping blanks.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseImportant(row RawRow) bool {
	_, value := lookup(row, FieldImportant)
	if b, ok := value.(bool); ok {
		return b
	}
	return truthy[strings.ToLower(strings.TrimSpace(cellString(value)))]
}
