package upload

import (
	"context"
	"errors"

	"carrental/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *Upload) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperr.Backend(err, "failed to save upload record")
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Upload, error) {
	var u Upload
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, apperr.Backend(err, "failed to load upload")
	}
	return &u, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Upload{}).Error; err != nil {
		return apperr.Backend(err, "failed to delete upload")
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Upload, error) {
	var uploads []Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, apperr.Backend(err, "failed to list uploads")
	}
	return uploads, nil
}
