package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Exactly one per profile.
type Role string

const (
	RoleSuperAdmin         Role = "SuperAdmin"
	RoleAdmin              Role = "Admin"
	RoleSupportStaff       Role = "SupportStaff"
	RoleServiceCenterStaff Role = "ServiceCenterStaff"
	RoleCarOwner           Role = "CarOwner"
	RoleCustomer           Role = "Customer"
)

var validRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleSupportStaff,
	RoleServiceCenterStaff,
	RoleCarOwner,
	RoleCustomer,
}

// Roles returns every role in declaration order.
func Roles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	for _, v := range validRoles {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRole matches case-insensitively and returns the canonical spelling.
func ParseRole(value string) (Role, error) {
	trimmed := strings.TrimSpace(value)
	for _, v := range validRoles {
		if strings.EqualFold(string(v), trimmed) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
