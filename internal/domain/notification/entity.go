package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusUnread Status = "Unread"
	StatusRead   Status = "Read"
)

// Notification tells a service-center staff member about maintenance work
// assigned to them.
type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_service_notifications_recipient" json:"recipient_id"`
	MaintenanceID uuid.UUID  `gorm:"type:uuid;not null" json:"maintenance_id"`
	Message       string     `gorm:"type:text;not null" json:"message"`
	Status        Status     `gorm:"type:varchar(16);not null;default:Unread;index:idx_service_notifications_recipient" json:"status"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "service_notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
