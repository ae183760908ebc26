package booking

import (
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/pricing"
	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

type IncidentStatus string

const (
	IncidentPending   IncidentStatus = "Pending"
	IncidentReviewing IncidentStatus = "Reviewing"
	IncidentResolved  IncidentStatus = "Resolved"
)

// Declared transitions. They are only checked when strict mode is on.
var (
	statusTransitions = map[Status][]Status{
		StatusPending:  {StatusApproved, StatusCancelled},
		StatusApproved: {StatusActive, StatusCancelled},
		StatusActive:   {StatusCompleted},
	}
	paymentTransitions = map[PaymentStatus][]PaymentStatus{
		PaymentPending: {PaymentPaid},
		PaymentPaid:    {PaymentRefunded},
	}
	incidentTransitions = map[IncidentStatus][]IncidentStatus{
		IncidentPending:   {IncidentReviewing},
		IncidentReviewing: {IncidentResolved},
	}
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the booking no longer holds its car.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentPending, IncidentReviewing, IncidentResolved:
		return true
	}
	return false
}

// sourcesOf inverts a transition table: the states from which to is reachable.
func sourcesOf[S comparable](table map[S][]S, to S) []S {
	var out []S
	for from, targets := range table {
		for _, t := range targets {
			if t == to {
				out = append(out, from)
			}
		}
	}
	return out
}

// Incident is the customer-reported problem attached to a booking.
// Reporting again overwrites the previous report.
type Incident struct {
	Reported   bool           `gorm:"not null;default:false" json:"reported"`
	Details    string         `gorm:"type:text" json:"details,omitempty"`
	Photos     utils.Photos   `gorm:"type:text" json:"photos,omitempty"`
	ReportedAt *time.Time     `json:"reported_at,omitempty"`
	Status     IncidentStatus `gorm:"type:varchar(16)" json:"status,omitempty"`
}

type Booking struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	CarID           uuid.UUID              `gorm:"type:uuid;not null;index" json:"car_id"`
	CustomerID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	RentalPeriod    pricing.Period         `gorm:"type:varchar(16);not null" json:"rental_period"`
	StartDate       time.Time              `gorm:"not null" json:"start_date"`
	EndDate         time.Time              `gorm:"not null" json:"end_date"`
	DeliveryOption  pricing.DeliveryOption `gorm:"type:varchar(16);not null" json:"delivery_option"`
	DeliveryAddress *domain.Address        `gorm:"type:text" json:"delivery_address,omitempty"`
	DeliveryTime    string                 `gorm:"type:varchar(5)" json:"delivery_time,omitempty"`
	SpecialRequests string                 `gorm:"type:text" json:"special_requests,omitempty"`
	Days            int                    `gorm:"not null" json:"days"`
	DailyRate       decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"daily_rate"`
	DeliveryFee     decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"delivery_fee"`
	Deposit         decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"deposit"`
	TotalPrice      decimal.Decimal        `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Status          Status                 `gorm:"type:varchar(16);not null;index" json:"status"`
	PaymentStatus   PaymentStatus          `gorm:"type:varchar(16);not null" json:"payment_status"`
	Incident        Incident               `gorm:"embedded;embeddedPrefix:incident_" json:"incident"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
