package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/commlog/internal/entities"
	"github.com/mrlokans/commlog/internal/importers"
)

// EntryInput is the user-editable part of an entry.
type EntryInput struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Category         string                `json:"category"`
	Tags             []string              `json:"tags"`
	IsImportant      bool                  `json:"is_important"`
	Date             string                `json:"date"`
	Initiator        string                `json:"initiator"`
	MediationAttempt string                `json:"mediation_attempt"`
	ChatExtract      string                `json:"chat_extract"`
	Attachments      []entities.Attachment `json:"attachments"`
}

// EntryService validates entries before they reach the store.
type EntryService struct {
	store EntryStore
	now   func() time.Time
}

// NewEntryService creates a new EntryService.
func NewEntryService(store EntryStore) *EntryService {
	return &EntryService{
		store: store,
		now:   time.Now,
	}
}

// Compile-time check that the service can back an import session.
var _ importers.EntryCreator = (*EntryService)(nil)

// CreateEntry normalizes and stores a fully built entry. Imports go through here.
func (s *EntryService) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	if err := s.normalize(entry); err != nil {
		return err
	}
	return s.store.CreateEntry(ctx, entry)
}

// Create stores a new entry for userID.
func (s *EntryService) Create(ctx context.Context, userID uint, input EntryInput) (*entities.Entry, error) {
	entry := &entities.Entry{UserID: userID}
	if err := s.apply(entry, input); err != nil {
		return nil, err
	}

	now := s.now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

// Get returns one of the user's entries.
func (s *EntryService) Get(ctx context.Context, userID, id uint) (*entities.Entry, error) {
	return s.store.GetEntry(ctx, userID, id)
}

// Update replaces the editable fields of an existing entry.
func (s *EntryService) Update(ctx context.Context, userID, id uint, input EntryInput) (*entities.Entry, error) {
	entry, err := s.store.GetEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(entry, input); err != nil {
		return nil, err
	}
	entry.UpdatedAt = s.now()

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry %d: %w", id, err)
	}
	return entry, nil
}

// List returns one page of entries matching filter.
func (s *EntryService) List(ctx context.Context, filter entities.EntryFilter) (EntryPage, error) {
	filter = filter.Normalize()
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return EntryPage{}, fmt.Errorf("%w: from is after to", ErrValidation)
	}

	entries, total, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return EntryPage{}, fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []entities.Entry{}
	}

	return EntryPage{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// BulkDelete soft-deletes the given entries and returns how many were removed.
// IDs the user does not own are ignored.
func (s *EntryService) BulkDelete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids given", ErrValidation)
	}
	return s.store.DeleteEntries(ctx, userID, ids)
}

// Tags returns the distinct tags in use by userID.
func (s *EntryService) Tags(ctx context.Context, userID uint) ([]string, error) {
	tags, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *EntryService) apply(entry *entities.Entry, input EntryInput) error {
	entry.Title = input.Title
	entry.Description = input.Description
	entry.Category = entities.Category(input.Category)
	entry.Tags = input.Tags
	entry.IsImportant = input.IsImportant
	entry.Initiator = input.Initiator
	entry.MediationAttempt = input.MediationAttempt
	entry.ChatExtract = input.ChatExtract
	entry.Attachments = input.Attachments

	entry.Date = time.Time{}
	if strings.TrimSpace(input.Date) != "" {
		date, ok := importers.NormalizeDate(input.Date)
		if !ok {
			return fmt.Errorf("%w: invalid date %q", ErrValidation, input.Date)
		}
		entry.Date = date
	}

	return s.normalize(entry)
}

func (s *EntryService) normalize(entry *entities.Entry) error {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Description = strings.TrimSpace(entry.Description)
	if entry.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if entry.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}

	if !entry.Category.Valid() {
		entry.Category = importers.MapCategory(string(entry.Category))
	}

	entry.Tags = dedupeTags(entry.Tags)

	if entry.Date.IsZero() {
		entry.Date = s.now()
	}
	d := entry.Date.UTC()
	entry.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	entry.Initiator = strings.TrimSpace(entry.Initiator)
	entry.MediationAttempt = strings.TrimSpace(entry.MediationAttempt)
	entry.ChatExtract = strings.TrimSpace(entry.ChatExtract)

	if entry.Attachments == nil {
		entry.Attachments = []entities.Attachment{}
	}
	return nil
}

// dedupeTags trims tags and drops blanks and repeats, keeping first occurrences.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
