package access

import "github.com/google/uuid"

// Capability names a guarded action or portal.
type Capability string

const (
	CapCustomerPortal     Capability = "customer_portal"
	CapOwnerPortal        Capability = "owner_portal"
	CapAdminPortal        Capability = "admin_portal"
	CapServicePortal      Capability = "service_portal"
	CapApproveCars        Capability = "approve_cars"
	CapApproveBookings    Capability = "approve_bookings"
	CapManageUsers        Capability = "manage_users"
	CapManageMaintenance  Capability = "manage_maintenance"
	CapReportIncident     Capability = "report_incident"
	CapCreateBooking      Capability = "create_booking"
	CapSubmitCar          Capability = "submit_car"
	CapViewAssignedStaff  Capability = "view_service_staff"
	CapReceiveAssignments Capability = "receive_assignments"
)

// policy is the single source of truth for who may do what.
var policy = map[Capability][]Role{
	CapCustomerPortal:     {RoleCustomer, RoleCarOwner, RoleAdmin, RoleSuperAdmin},
	CapOwnerPortal:        {RoleCarOwner, RoleAdmin, RoleSuperAdmin},
	CapAdminPortal:        {RoleAdmin, RoleSuperAdmin, RoleSupportStaff},
	CapServicePortal:      {RoleServiceCenterStaff, RoleAdmin, RoleSuperAdmin},
	CapApproveCars:        {RoleAdmin, RoleSuperAdmin},
	CapApproveBookings:    {RoleAdmin, RoleSuperAdmin},
	CapManageUsers:        {RoleSuperAdmin},
	CapManageMaintenance:  {RoleServiceCenterStaff, RoleAdmin, RoleSuperAdmin},
	CapReportIncident:     {RoleCustomer, RoleCarOwner, RoleAdmin, RoleSuperAdmin},
	CapCreateBooking:      {RoleCustomer, RoleCarOwner, RoleAdmin, RoleSuperAdmin},
	CapSubmitCar:          {RoleCarOwner, RoleAdmin, RoleSuperAdmin},
	CapViewAssignedStaff:  {RoleServiceCenterStaff, RoleAdmin, RoleSuperAdmin},
	CapReceiveAssignments: {RoleServiceCenterStaff},
}

// Capabilities lists every capability known to the policy.
func Capabilities() []Capability {
	return []Capability{
		CapCustomerPortal, CapOwnerPortal, CapAdminPortal, CapServicePortal,
		CapApproveCars, CapApproveBookings, CapManageUsers, CapManageMaintenance,
		CapReportIncident, CapCreateBooking, CapSubmitCar, CapViewAssignedStaff,
		CapReceiveAssignments,
	}
}

// AllowedRoles returns the roles granted c.
func AllowedRoles(c Capability) []Role {
	roles := policy[c]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// Authorize reports whether role holds capability c. Unknown capabilities are denied.
func Authorize(role Role, c Capability) bool {
	for _, r := range policy[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the identity performing an operation, with its role read from the profile store.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) Can(c Capability) bool {
	return Authorize(a.Role, c)
}

// Decision is the outcome of evaluating a session against a capability.
type Decision string

const (
	DecisionPending         Decision = "pending"
	DecisionAllow           Decision = "allow"
	DecisionDeny            Decision = "deny"
	DecisionUnauthenticated Decision = "unauthenticated"
)

// Subject describes the caller's session at evaluation time.
type Subject struct {
	Authenticated bool
	// ProfileLoaded is false while the role lookup has not completed.
	ProfileLoaded bool
	Role          Role
}

// Evaluate decides access for s. Identity is checked before the profile so
// a missing session never waits on a profile that cannot load.
func Evaluate(s Subject, c Capability) Decision {
	if !s.Authenticated {
		return DecisionUnauthenticated
	}
	if !s.ProfileLoaded {
		return DecisionPending
	}
	if Authorize(s.Role, c) {
		return DecisionAllow
	}
	return DecisionDeny
}

// Redirect is the navigation target for a decision, empty when none applies.
func (d Decision) Redirect() string {
	switch d {
	case DecisionUnauthenticated:
		return "/auth"
	case DecisionDeny:
		return "/dashboard"
	default:
		return ""
	}
}

// LandingPage is the default authenticated page for a role.
func LandingPage(role Role) string {
	switch role {
	case RoleCustomer:
		return "/customer/dashboard"
	case RoleCarOwner:
		return "/owner/dashboard"
	case RoleAdmin, RoleSuperAdmin, RoleSupportStaff:
		return "/admin"
	case RoleServiceCenterStaff:
		return "/service"
	default:
		return "/dashboard"
	}
}
