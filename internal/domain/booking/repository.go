package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows List. Zero values are ignored.
type Filter struct {
	Status        Status
	PaymentStatus PaymentStatus
	CarID         uuid.UUID
	CustomerID    uuid.UUID
}

// Repository persists bookings. The Set* methods update one column; with no
// from values the write is blind, otherwise it only applies while the current
// value is one of from. They report whether a row matched.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
	ListByCarOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error)
	SetStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (bool, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, to PaymentStatus, from ...PaymentStatus) (bool, error)
	SetIncidentStatus(ctx context.Context, id uuid.UUID, to IncidentStatus, from ...IncidentStatus) (bool, error)
	SaveIncident(ctx context.Context, id uuid.UUID, inc Incident) error
	HasOpenBooking(ctx context.Context, carID, except uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// HasOpenBooking reports whether a booking other than except still holds the car.
func (r *repository) HasOpenBooking(ctx context.Context, carID, except uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("car_id = ? AND id <> ?", carID, except).
		Where("status NOT IN ?", []Status{StatusCompleted, StatusCancelled}).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) List(ctx context.Context, f Filter) ([]Booking, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.CarID != uuid.Nil {
		q = q.Where("car_id = ?", f.CarID)
	}
	if f.CustomerID != uuid.Nil {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	var out []Booking
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) ListByCarOwner(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	var out []Booking
	err := r.db.WithContext(ctx).
		Select("bookings.*").
		Joins("JOIN cars ON cars.id = bookings.car_id").
		Where("cars.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, to Status, from ...Status) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}
	return rowsMatched(q.Updates(map[string]any{"status": to, "updated_at": time.Now()}))
}

func (r *repository) SetPaymentStatus(ctx context.Context, id uuid.UUID, to PaymentStatus, from ...PaymentStatus) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id)
	if len(from) > 0 {
		q = q.Where("payment_status IN ?", from)
	}
	return rowsMatched(q.Updates(map[string]any{"payment_status": to, "updated_at": time.Now()}))
}

// SetIncidentStatus never matches a booking without a reported incident.
func (r *repository) SetIncidentStatus(ctx context.Context, id uuid.UUID, to IncidentStatus, from ...IncidentStatus) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ? AND incident_reported = ?", id, true)
	if len(from) > 0 {
		q = q.Where("incident_status IN ?", from)
	}
	return rowsMatched(q.Updates(map[string]any{"incident_status": to, "updated_at": time.Now()}))
}

func (r *repository) SaveIncident(ctx context.Context, id uuid.UUID, inc Incident) error {
	ok, err := rowsMatched(r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).
		Updates(map[string]any{
			"incident_reported":    inc.Reported,
			"incident_details":     inc.Details,
			"incident_photos":      inc.Photos,
			"incident_reported_at": inc.ReportedAt,
			"incident_status":      inc.Status,
			"updated_at":           time.Now(),
		}))
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookingNotFound
	}
	return nil
}

func rowsMatched(res *gorm.DB) (bool, error) {
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
