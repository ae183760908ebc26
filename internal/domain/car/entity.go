package car

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"carrental/internal/domain/pricing"
	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusNew         Status = "New"
	StatusAvailable   Status = "Available"
	StatusBooked      Status = "Booked"
	StatusMaintenance Status = "Maintenance"
	StatusRejected    Status = "Rejected"
)

var validStatuses = []Status{StatusNew, StatusAvailable, StatusBooked, StatusMaintenance, StatusRejected}

func (s Status) IsValid() bool {
	for _, v := range validStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Type string

const (
	TypeSedan     Type = "Sedan"
	TypeSUV       Type = "SUV"
	TypeCoupe     Type = "Coupe"
	TypeHatchback Type = "Hatchback"
	TypeWagon     Type = "Wagon"
	TypePickup    Type = "Pickup"
	TypeMinivan   Type = "Minivan"
)

// Specifications are descriptive attributes shown on the listing.
type Specifications struct {
	Seats          int      `json:"seats,omitempty"`
	Doors          int      `json:"doors,omitempty"`
	Transmission   string   `json:"transmission,omitempty" validate:"omitempty,oneof=Automatic Manual"`
	FuelType       string   `json:"fuel_type,omitempty" validate:"omitempty,oneof=Gasoline Diesel Electric Hybrid"`
	FuelEfficiency string   `json:"fuel_efficiency,omitempty"`
	Features       []string `json:"features,omitempty"`
}

func (s Specifications) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *Specifications) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("specifications: unsupported column type %T", src)
	}
}

// Car is a listing submitted by an owner. Listings are never hard-deleted.
type Car struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Make           string          `gorm:"not null" json:"make"`
	Model          string          `gorm:"not null" json:"model"`
	Year           int             `gorm:"not null" json:"year"`
	Type           Type            `gorm:"type:varchar(16);not null" json:"type"`
	Color          string          `json:"color"`
	Description    string          `gorm:"type:text" json:"description"`
	Photos         utils.Photos    `gorm:"type:text" json:"photos"`
	Status         Status          `gorm:"type:varchar(16);not null;index" json:"status"`
	Pricing        pricing.Rates   `gorm:"embedded;embeddedPrefix:rate_" json:"pricing"`
	Specifications *Specifications `gorm:"type:text" json:"specifications,omitempty"`
	AvailableFrom  *time.Time      `json:"available_from,omitempty"`
	AvailableUntil *time.Time      `json:"available_until,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Car) TableName() string { return "cars" }

func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
