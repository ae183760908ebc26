package car

import (
	"context"
	"errors"
	"time"

	"carrental/internal/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter narrows List. Zero values are ignored.
type Filter struct {
	Status  Status
	Type    Type
	Make    string
	OwnerID uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, c *Car) error
	GetByID(ctx context.Context, id uuid.UUID) (*Car, error)
	List(ctx context.Context, f Filter) ([]Car, error)
	// TransitionStatus updates only when the current status is one of from.
	// It reports whether a row matched.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error
	UpdatePhotos(ctx context.Context, id uuid.UUID, photos utils.Photos) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Car) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Car, error) {
	var c Car
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Car, error) {
	q := r.db.WithContext(ctx).Model(&Car{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Make != "" {
		q = q.Where("LOWER(make) = LOWER(?)", f.Make)
	}
	if f.OwnerID != uuid.Nil {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	var out []Car
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Car{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, to Status) error {
	res := r.db.WithContext(ctx).Model(&Car{}).Where("id = ?", id).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCarNotFound
	}
	return nil
}

func (r *repository) UpdatePhotos(ctx context.Context, id uuid.UUID, photos utils.Photos) error {
	res := r.db.WithContext(ctx).Model(&Car{}).Where("id = ?", id).
		Updates(map[string]any{"photos": photos, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCarNotFound
	}
	return nil
}
