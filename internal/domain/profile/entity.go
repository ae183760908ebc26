package profile

import (
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/access"

	"github.com/google/uuid"
)

// Profile is the per-user record holding the authoritative role.
// Its ID equals the identity provider's user id.
type Profile struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string          `gorm:"not null" json:"full_name"`
	Email     string          `json:"email,omitempty"`
	Role      access.Role     `gorm:"type:varchar(32);not null;index" json:"role"`
	Phone     *string         `json:"phone,omitempty"`
	Address   *domain.Address `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
