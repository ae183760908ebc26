package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/access"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateContact(ctx context.Context, id uuid.UUID, fullName *string, phone *string, address *domain.Address) error
	UpdateRole(ctx context.Context, id uuid.UUID, role access.Role) error
	List(ctx context.Context, role access.Role) ([]Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create reports a concurrent insert of the same id as gorm.ErrDuplicatedKey.
func (r *repository) Create(ctx context.Context, p *Profile) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil && isUniqueViolation(err) {
		return gorm.ErrDuplicatedKey
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateContact(ctx context.Context, id uuid.UUID, fullName *string, phone *string, address *domain.Address) error {
	updates := map[string]any{"updated_at": time.Now()}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if address != nil {
		updates["address"] = *address
	}
	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, role access.Role) error {
	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// List returns profiles ordered by name; an empty role lists everyone.
func (r *repository) List(ctx context.Context, role access.Role) ([]Profile, error) {
	q := r.db.WithContext(ctx).Model(&Profile{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var out []Profile
	err := q.Order("full_name ASC").Find(&out).Error
	return out, err
}
