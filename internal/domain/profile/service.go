package profile

import (
	"context"
	"errors"
	"strings"

	"carrental/internal/domain/access"
	"carrental/internal/pkg/apperr"
	"carrental/internal/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns profiles and is the only source of a user's role.
type Service struct {
	repo  Repository
	cache Cache
	log   *logger.Logger
}

// NewService wires the profile store. A nil cache disables caching.
func NewService(repo Repository, cache Cache, log *logger.Logger) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

// Ensure registers the caller's profile and returns the existing one when it
// is already there. Self-service signups may only pick Customer or CarOwner.
func (s *Service) Ensure(ctx context.Context, userID uuid.UUID, email string, req CreateProfileRequest) (*Profile, bool, error) {
	role := access.RoleCustomer
	if req.Role != "" {
		parsed, err := access.ParseRole(req.Role)
		if err != nil || (parsed != access.RoleCustomer && parsed != access.RoleCarOwner) {
			return nil, false, ErrInvalidRole.WithDetails(map[string]string{"role": "must be Customer or CarOwner"})
		}
		role = parsed
	}

	existing, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, apperr.Backend(err, "failed to load profile")
	}

	p := &Profile{
		ID:       userID,
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Role:     role,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a parallel sign-up won the insert
			existing, getErr := s.repo.GetByID(ctx, userID)
			if getErr != nil {
				return nil, false, apperr.Backend(getErr, "failed to load profile")
			}
			return existing, false, nil
		}
		return nil, false, apperr.Backend(err, "failed to create profile")
	}
	return p, true, nil
}

// Get reads through the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.log.Warn(ctx, "profile cache read failed", err)
	} else if cached != nil {
		return cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Backend(err, "failed to load profile")
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warn(ctx, "profile cache write failed", err)
	}
	return p, nil
}

// ResolveRole implements middleware.RoleResolver.
func (s *Service) ResolveRole(ctx context.Context, userID uuid.UUID) (access.Role, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !p.Role.IsValid() {
		return "", apperr.New(apperr.CodeForbidden, "profile has an unknown role")
	}
	return p.Role, nil
}

func (s *Service) UpdateContact(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		req.FullName = &trimmed
	}
	if err := s.repo.UpdateContact(ctx, id, req.FullName, req.Phone, req.Address); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Backend(err, "failed to update profile")
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

// List returns profiles, optionally filtered by role.
func (s *Service) List(ctx context.Context, actor access.Actor, role string) ([]Profile, error) {
	if !actor.Can(access.CapManageUsers) {
		return nil, ErrForbidden
	}
	var filter access.Role
	if role != "" {
		parsed, err := access.ParseRole(role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		filter = parsed
	}
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Backend(err, "failed to list profiles")
	}
	return out, nil
}

// ListServiceStaff returns the staff that maintenance can be assigned to.
func (s *Service) ListServiceStaff(ctx context.Context, actor access.Actor) ([]Profile, error) {
	if !actor.Can(access.CapViewAssignedStaff) {
		return nil, ErrForbidden
	}
	var out []Profile
	for _, role := range access.AllowedRoles(access.CapReceiveAssignments) {
		staff, err := s.repo.List(ctx, role)
		if err != nil {
			return nil, apperr.Backend(err, "failed to list service staff")
		}
		out = append(out, staff...)
	}
	return out, nil
}

// ChangeRole is restricted to SuperAdmin. The cached role is dropped so the
// next request sees the new one.
func (s *Service) ChangeRole(ctx context.Context, actor access.Actor, targetID uuid.UUID, role string) (*Profile, error) {
	if !actor.Can(access.CapManageUsers) {
		return nil, ErrForbidden
	}
	parsed, err := access.ParseRole(role)
	if err != nil {
		return nil, ErrInvalidRole.WithDetails(map[string]string{"role": role})
	}
	if err := s.repo.UpdateRole(ctx, targetID, parsed); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Backend(err, "failed to change role")
	}
	s.invalidate(ctx, targetID)

	ctx = s.log.WithFields(ctx, map[string]any{"target_id": targetID.String(), "new_role": string(parsed)})
	s.log.Info(ctx, "role changed")
	return s.Get(ctx, targetID)
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn(ctx, "profile cache invalidation failed", err)
	}
}
