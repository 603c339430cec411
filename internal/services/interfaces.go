package services

import (
	"context"

	"github.com/mrlokans/commlog/internal/entities"
)

// EntryStore persists entries. Implementations scope every read and delete to
// the given user and return ErrNotFound for entries the user does not own.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry *entities.Entry) error
	GetEntry(ctx context.Context, userID, id uint) (*entities.Entry, error)
	UpdateEntry(ctx context.Context, entry *entities.Entry) error
	// ListEntries returns one page of matches ordered newest first and the
	// total number of matches ignoring paging.
	ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.Entry, int64, error)
	DeleteEntries(ctx context.Context, userID uint, ids []uint) (int64, error)
	// ListTags returns the user's distinct tags, sorted.
	ListTags(ctx context.Context, userID uint) ([]string, error)
}

// EntryPage is one page of a listing.
type EntryPage struct {
	Entries []entities.Entry `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
