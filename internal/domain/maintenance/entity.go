package maintenance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Type string

const (
	TypeRegular    Type = "Regular"
	TypeRepair     Type = "Repair"
	TypeInspection Type = "Inspection"
)

func (t Type) IsValid() bool {
	return t == TypeRegular || t == TypeRepair || t == TypeInspection
}

type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Checked only in strict mode.
var statusTransitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func sourcesOf(to Status) []Status {
	var out []Status
	for from, targets := range statusTransitions {
		for _, t := range targets {
			if t == to {
				out = append(out, from)
			}
		}
	}
	return out
}

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "Pending"
	InvoicePaid    InvoiceStatus = "Paid"
	// InvoiceMixed is derived when member records disagree.
	InvoiceMixed InvoiceStatus = "Mixed"
)

// InvoiceDetails is stored on every member record of an invoice.
type InvoiceDetails struct {
	DueDate        time.Time   `json:"due_date"`
	Notes          string      `json:"notes,omitempty"`
	MaintenanceIDs []uuid.UUID `json:"maintenance_ids"`
}

func (d InvoiceDetails) Value() (driver.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (d *InvoiceDetails) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		return json.Unmarshal([]byte(v), d)
	case []byte:
		return json.Unmarshal(v, d)
	default:
		return fmt.Errorf("invoice details: unsupported column type %T", src)
	}
}

// Record is one scheduled or performed service on a car.
type Record struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CarID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"car_id"`
	Type            Type                `gorm:"type:varchar(16);not null" json:"type"`
	Description     string              `gorm:"type:text;not null" json:"description"`
	Cost            decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"cost"`
	Date            time.Time           `gorm:"not null" json:"date"`
	Status          Status              `gorm:"type:varchar(16);not null;index" json:"status"`
	PerformedBy     *uuid.UUID          `gorm:"type:uuid;index" json:"performed_by,omitempty"`
	Notes           string              `gorm:"type:text" json:"notes,omitempty"`
	Photos          utils.Photos        `gorm:"type:text" json:"photos,omitempty"`
	NextServiceDate *time.Time          `json:"next_service_date,omitempty"`
	InvoiceNumber   *string             `gorm:"type:varchar(32);index" json:"invoice_number,omitempty"`
	InvoiceDate     *time.Time          `json:"invoice_date,omitempty"`
	InvoiceStatus   *InvoiceStatus      `gorm:"type:varchar(16)" json:"invoice_status,omitempty"`
	InvoiceAmount   decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"invoice_amount"`
	InvoiceDetails  *InvoiceDetails     `gorm:"type:text" json:"invoice_details,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func (Record) TableName() string { return "maintenance" }

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Invoiceable reports whether the record may join a new invoice.
func (r *Record) Invoiceable() bool {
	return r.Status == StatusCompleted && r.InvoiceNumber == nil
}
