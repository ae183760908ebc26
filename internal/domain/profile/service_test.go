package profile

import (
	"context"
	"testing"
	"time"

	"carrental/internal/domain/access"
	"carrental/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *mockCmdable) {
	t.Helper()
	store := newMockCmdable()
	cache := &redisCache{store: store, ttl: time.Minute}
	return NewService(NewRepository(setupDB(t)), cache, nil), store
}

func seedProfile(t *testing.T, svc *Service, role access.Role) *Profile {
	t.Helper()
	p := &Profile{ID: uuid.New(), FullName: string(role) + " user", Role: role}
	require.NoError(t, svc.repo.Create(context.Background(), p))
	return p
}

func TestEnsureDefaultsToCustomerAndIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	id := uuid.New()

	p, created, err := svc.Ensure(context.Background(), id, "a@example.com", CreateProfileRequest{FullName: "  Ada  "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, access.RoleCustomer, p.Role)
	assert.Equal(t, "Ada", p.FullName)

	again, created, err := svc.Ensure(context.Background(), id, "a@example.com", CreateProfileRequest{FullName: "Someone Else", Role: "CarOwner"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ada", again.FullName)
	assert.Equal(t, access.RoleCustomer, again.Role)
}

func TestCreateRejectsPrivilegedRole(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.Ensure(context.Background(), uuid.New(), "", CreateProfileRequest{FullName: "Mallory", Role: "SuperAdmin"})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestResolveRoleMissingProfile(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ResolveRole(context.Background(), uuid.New())
	assert.Equal(t, apperr.CodeProfileNotFound, apperr.CodeOf(err))
}

func TestResolveRoleReadsThroughCache(t *testing.T) {
	svc, store := newTestService(t)
	p := seedProfile(t, svc, access.RoleCarOwner)

	role, err := svc.ResolveRole(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RoleCarOwner, role)
	assert.True(t, store.has(cacheKey(p.ID)))

	// a direct store write is invisible until the cache entry is dropped
	require.NoError(t, svc.repo.UpdateRole(context.Background(), p.ID, access.RoleCustomer))
	role, err = svc.ResolveRole(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RoleCarOwner, role)
}

func TestChangeRoleRequiresSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	target := seedProfile(t, svc, access.RoleCustomer)

	for _, role := range []access.Role{access.RoleAdmin, access.RoleSupportStaff, access.RoleCustomer} {
		_, err := svc.ChangeRole(context.Background(), access.Actor{UserID: uuid.New(), Role: role}, target.ID, "Admin")
		assert.Equalf(t, apperr.CodeForbidden, apperr.CodeOf(err), "actor %s", role)
	}
}

func TestChangeRoleInvalidatesCache(t *testing.T) {
	svc, store := newTestService(t)
	super := access.Actor{UserID: uuid.New(), Role: access.RoleSuperAdmin}
	target := seedProfile(t, svc, access.RoleCustomer)

	_, err := svc.ResolveRole(context.Background(), target.ID)
	require.NoError(t, err)
	require.True(t, store.has(cacheKey(target.ID)))

	updated, err := svc.ChangeRole(context.Background(), super, target.ID, "servicecenterstaff")
	require.NoError(t, err)
	assert.Equal(t, access.RoleServiceCenterStaff, updated.Role)

	role, err := svc.ResolveRole(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, access.RoleServiceCenterStaff, role)
}

func TestChangeRoleUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t)
	super := access.Actor{UserID: uuid.New(), Role: access.RoleSuperAdmin}

	_, err := svc.ChangeRole(context.Background(), super, uuid.New(), "Admin")
	assert.Equal(t, apperr.CodeProfileNotFound, apperr.CodeOf(err))

	_, err = svc.ChangeRole(context.Background(), super, uuid.New(), "Pilot")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestListServiceStaff(t *testing.T) {
	svc, _ := newTestService(t)
	staff := seedProfile(t, svc, access.RoleServiceCenterStaff)
	seedProfile(t, svc, access.RoleCustomer)

	out, err := svc.ListServiceStaff(context.Background(), access.Actor{UserID: uuid.New(), Role: access.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, staff.ID, out[0].ID)

	_, err = svc.ListServiceStaff(context.Background(), access.Actor{UserID: uuid.New(), Role: access.RoleCustomer})
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestUpdateContact(t *testing.T) {
	svc, _ := newTestService(t)
	p := seedProfile(t, svc, access.RoleCustomer)
	phone := "+1 555 0100"

	updated, err := svc.UpdateContact(context.Background(), p.ID, UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, p.FullName, updated.FullName)
}
