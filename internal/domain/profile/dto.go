package profile

import "carrental/internal/domain"

// CreateProfileRequest registers the caller. Privileged roles are only granted through ChangeRole.
type CreateProfileRequest struct {
	FullName string          `json:"full_name" validate:"required,max=200"`
	Role     string          `json:"role" validate:"omitempty,oneof=Customer CarOwner"`
	Phone    *string         `json:"phone" validate:"omitempty,max=32"`
	Address  *domain.Address `json:"address"`
}

type UpdateProfileRequest struct {
	FullName *string         `json:"full_name" validate:"omitempty,min=1,max=200"`
	Phone    *string         `json:"phone" validate:"omitempty,max=32"`
	Address  *domain.Address `json:"address"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
