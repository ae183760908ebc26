package upload

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload is a file kept in local object storage. Listings, incidents and
// service logs reference it by URL.
type Upload struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	FilePath     string    `gorm:"size:512;not null" json:"-"`
	FileURL      string    `gorm:"size:512;not null" json:"url"`
	MimeType     string    `gorm:"size:100;not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Upload) TableName() string { return "uploads" }

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
