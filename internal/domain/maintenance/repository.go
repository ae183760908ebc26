package maintenance

import (
	"context"
	"errors"
	"time"

	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Filter struct {
	CarID  uuid.UUID
	Type   Type
	Status Status
}

// LogUpdate carries the fields written when service work is logged against
// an existing record. Nil fields are left unchanged.
type LogUpdate struct {
	Status      Status
	Cost        *decimal.Decimal
	Notes       *string
	Photos      utils.Photos
	PerformedBy *uuid.UUID
}

// InvoiceFields are written identically to every member of an invoice.
type InvoiceFields struct {
	Number  string
	Date    time.Time
	Status  InvoiceStatus
	Amount  decimal.Decimal
	Details InvoiceDetails
}

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	ListByCarOwner(ctx context.Context, ownerID uuid.UUID) ([]Record, error)
	ListUninvoiced(ctx context.Context) ([]Record, error)
	ListInvoiced(ctx context.Context, search string) ([]Record, error)
	ListByInvoiceNumber(ctx context.Context, number string) ([]Record, error)
	// ApplyLog writes u when the record's status is one of from, or
	// unconditionally when from is empty. It reports whether a row matched.
	ApplyLog(ctx context.Context, id uuid.UUID, u LogUpdate, from ...Status) (bool, error)
	ApplyInvoice(ctx context.Context, id uuid.UUID, inv InvoiceFields) error
	SetInvoiceStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var errRecordMissing = errors.New("maintenance record missing")

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Record, error) {
	var out []Record
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *repository) List(ctx context.Context, f Filter) ([]Record, error) {
	q := r.db.WithContext(ctx).Model(&Record{})
	if f.CarID != uuid.Nil {
		q = q.Where("car_id = ?", f.CarID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []Record
	err := q.Order("date DESC").Find(&out).Error
	return out, err
}

func (r *repository) ListByCarOwner(ctx context.Context, ownerID uuid.UUID) ([]Record, error) {
	var out []Record
	err := r.db.WithContext(ctx).
		Select("maintenance.*").
		Joins("JOIN cars ON cars.id = maintenance.car_id").
		Where("cars.owner_id = ?", ownerID).
		Order("maintenance.date DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListUninvoiced(ctx context.Context) ([]Record, error) {
	var out []Record
	err := r.db.WithContext(ctx).
		Where("status = ? AND invoice_number IS NULL", StatusCompleted).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

// ListInvoiced matches search against the invoice number and the car make.
func (r *repository) ListInvoiced(ctx context.Context, search string) ([]Record, error) {
	q := r.db.WithContext(ctx).
		Select("maintenance.*").
		Joins("LEFT JOIN cars ON cars.id = maintenance.car_id").
		Where("maintenance.invoice_number IS NOT NULL")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(maintenance.invoice_number) LIKE LOWER(?) OR LOWER(cars.make) LIKE LOWER(?)", like, like)
	}
	var out []Record
	err := q.Order("maintenance.invoice_date DESC").Order("maintenance.invoice_number").Find(&out).Error
	return out, err
}

func (r *repository) ListByInvoiceNumber(ctx context.Context, number string) ([]Record, error) {
	var out []Record
	err := r.db.WithContext(ctx).Where("invoice_number = ?", number).Find(&out).Error
	return out, err
}

func (r *repository) ApplyLog(ctx context.Context, id uuid.UUID, u LogUpdate, from ...Status) (bool, error) {
	fields := map[string]any{"status": u.Status, "updated_at": time.Now()}
	if u.Cost != nil {
		fields["cost"] = *u.Cost
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	if u.Photos != nil {
		fields["photos"] = u.Photos
	}
	if u.PerformedBy != nil {
		fields["performed_by"] = *u.PerformedBy
	}
	q := r.db.WithContext(ctx).Model(&Record{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	res := q.Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ApplyInvoice(ctx context.Context, id uuid.UUID, inv InvoiceFields) error {
	res := r.db.WithContext(ctx).Model(&Record{}).Where("id = ?", id).
		Updates(map[string]any{
			"invoice_number":  inv.Number,
			"invoice_date":    inv.Date,
			"invoice_status":  inv.Status,
			"invoice_amount":  inv.Amount,
			"invoice_details": inv.Details,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errRecordMissing
	}
	return nil
}

func (r *repository) SetInvoiceStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error {
	res := r.db.WithContext(ctx).Model(&Record{}).Where("id = ?", id).
		Updates(map[string]any{"invoice_status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errRecordMissing
	}
	return nil
}
