package model

import (
	"time"

	"github.com/lib/pq"
)

// Document is an applicant document managed by the employer that owns it
type Document struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"`
	ApplicantName string         `gorm:"not null" json:"applicant_name"`
	FileName      string         `gorm:"not null" json:"file_name"`
	ContentType   string         `gorm:"not null" json:"content_type"`
	StorageKey    string         `gorm:"uniqueIndex;not null" json:"storage_key"`
	FileURL       string         `json:"file_url"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
