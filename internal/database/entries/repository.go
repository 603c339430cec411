// Package entries provides database operations for communication log entries.
//
// This package implements the EntryStore interface defined in internal/services.
//
// # Usage
//
//	repo := entries.NewRepository(db)
//	page, total, err := repo.ListEntries(ctx, entities.EntryFilter{UserID: userID, Tag: "school"})
package entries

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/commlog/internal/entities"
	"github.com/mrlokans/commlog/internal/services"
)

// Repository handles all entry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new entries repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ services.EntryStore = (*Repository)(nil)

// CreateEntry inserts a new entry and sets its ID.
func (r *Repository) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	entry.ID = 0
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetEntry retrieves an entry owned by userID.
func (r *Repository) GetEntry(ctx context.Context, userID, id uint) (*entities.Entry, error) {
	var entry entities.Entry
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("entry %d: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry overwrites every column of an existing entry.
func (r *Repository) UpdateEntry(ctx context.Context, entry *entities.Entry) error {
	existing, err := r.GetEntry(ctx, entry.UserID, entry.ID)
	if err != nil {
		return err
	}
	entry.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(entry).Error
}

// ListEntries applies the same rules as EntryFilter.Matches in SQL.
func (r *Repository) ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.Entry, int64, error) {
	filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&entities.Entry{}).Where("user_id = ?", filter.UserID)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.ImportantOnly {
		query = query.Where("is_important = ?", true)
	}
	if !filter.From.IsZero() {
		query = query.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.Tag != "" {
		// tags are stored as a JSON array of strings
		query = query.Where("LOWER(tags) LIKE ?", "%"+jsonQuoted(strings.ToLower(filter.Tag))+"%")
	}
	if filter.Query != "" {
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entities.Entry
	err := query.Order("date DESC").Order("id DESC").
		Limit(filter.Limit).Offset(filter.Offset).Find(&result).Error
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// DeleteEntries soft-deletes the user's entries among ids.
func (r *Repository) DeleteEntries(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&entities.Entry{})
	return result.RowsAffected, result.Error
}

// ListTags collects the distinct tags of all the user's entries.
func (r *Repository) ListTags(ctx context.Context, userID uint) ([]string, error) {
	var rows []entities.Entry
	err := r.db.WithContext(ctx).Select("tags").Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, row := range rows {
		for _, tag := range row.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func jsonQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
