package maintenance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ScheduleRequest struct {
	CarID           string           `json:"car_id" validate:"required,uuid"`
	Type            string           `json:"type" validate:"required,oneof=Regular Repair Inspection"`
	Description     string           `json:"description" validate:"required,max=2000"`
	Date            string           `json:"date" validate:"required,datetime=2006-01-02"`
	EstimatedCost   *decimal.Decimal `json:"estimated_cost"`
	AssignedStaffID string           `json:"assigned_staff_id" validate:"omitempty,uuid"`
	NextServiceDate string           `json:"next_service_date" validate:"omitempty,datetime=2006-01-02"`
}

// LogServiceRequest logs work. CarID, Type and Description are only read
// when a new record is created in the same step.
type LogServiceRequest struct {
	CarID       string           `json:"car_id" validate:"omitempty,uuid"`
	Type        string           `json:"type" validate:"omitempty,oneof=Regular Repair Inspection"`
	Description string           `json:"description" validate:"max=2000"`
	Status      string           `json:"status" validate:"omitempty,oneof=InProgress Completed"`
	Cost        *decimal.Decimal `json:"cost"`
	Notes       *string          `json:"notes" validate:"omitempty,max=4000"`
	Photos      []string         `json:"photos" validate:"max=20,dive,required"`
	PerformedBy string           `json:"performed_by" validate:"omitempty,uuid"`
}

type GenerateInvoiceRequest struct {
	MaintenanceIDs []string `json:"maintenance_ids" validate:"required,min=1,dive,uuid"`
	InvoiceDate    string   `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	DueDate        string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	InvoiceNumber  string   `json:"invoice_number" validate:"omitempty,max=32"`
	Notes          string   `json:"notes" validate:"max=2000"`
}

type ListQuery struct {
	CarID  string `form:"car_id"`
	Type   string `form:"type"`
	Status string `form:"status"`
}

// InvoiceResult is returned by GenerateInvoice.
type InvoiceResult struct {
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
	AmountEach    decimal.Decimal `json:"amount_each"`
	Batch         BatchResult     `json:"batch"`
}

type PaymentResult struct {
	InvoiceNumber string      `json:"invoice_number"`
	Batch         BatchResult `json:"batch"`
}

type InvoiceItem struct {
	MaintenanceID uuid.UUID       `json:"maintenance_id"`
	CarID         uuid.UUID       `json:"car_id"`
	Type          Type            `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// Invoice is derived by grouping records on their shared invoice number.
type Invoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Items         []InvoiceItem   `json:"items"`
}
