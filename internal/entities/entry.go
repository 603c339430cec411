package entities

import (
	"time"

	"gorm.io/gorm"
)

type Category string

const (
	CategoryConflict     Category = "konflikt"
	CategoryConversation Category = "gespraech"
	CategoryBehavior     Category = "verhalten"
	CategoryEvidence     Category = "beweis"
	CategoryChildcare    Category = "kindbetreuung"
	CategoryOther        Category = "sonstiges"
)

// Categories lists the canonical categories in display order.
var Categories = []Category{
	CategoryConflict,
	CategoryConversation,
	CategoryBehavior,
	CategoryEvidence,
	CategoryChildcare,
	CategoryOther,
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100" json:"username"`
	Token     string         `gorm:"uniqueIndex;size:64" json:"-"` // API token, hidden from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Attachment references a file stored next to an entry.
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// Entry is a single logged communication or incident.
type Entry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index" json:"user_id"`
	Title       string    `gorm:"size:512" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    Category  `gorm:"index;size:32;default:'sonstiges'" json:"category"`
	Tags        []string  `gorm:"serializer:json;type:text" json:"tags"`
	IsImportant bool      `gorm:"index;default:false" json:"is_important"`
	Date        time.Time `gorm:"index" json:"date"`

	Initiator        string `gorm:"size:256" json:"initiator,omitempty"`
	MediationAttempt string `gorm:"type:text" json:"mediation_attempt,omitempty"`
	ChatExtract      string `gorm:"type:text" json:"chat_extract,omitempty"`

	Attachments []Attachment `gorm:"serializer:json;type:text" json:"attachments"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Entry) TableName() string {
	return "entries"
}
