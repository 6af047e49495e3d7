// Package roles defines the closed set of marketplace roles and the
// fixed landing route each role is sent to after login.
package roles

import "errors"

// ErrUnknownRole is returned when a role string from the login form or the
// backend does not name one of the four marketplace roles. Unknown values
// are rejected rather than falling through to a default role.
var ErrUnknownRole = errors.New("unknown role")

// Role represents one of the four marketplace account types.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleVendor     Role = "vendor"
	RoleStaffAdmin Role = "staffadmin"
	RoleAdmin      Role = "admin"
)

// All lists every valid role.
func All() []Role {
	return []Role{RoleCustomer, RoleVendor, RoleStaffAdmin, RoleAdmin}
}

// Parse converts a raw role string into a Role, rejecting anything outside
// the closed set with ErrUnknownRole.
func Parse(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleVendor, RoleStaffAdmin, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the four marketplace roles.
func (r Role) Valid() bool {
	_, err := Parse(string(r))
	return err == nil
}

// DefaultRoute returns the landing route for a role. A user who reaches a
// view outside their allow-list is redirected here, never to the requested
// view.
func (r Role) DefaultRoute() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleStaffAdmin:
		return "/staff"
	case RoleVendor:
		return "/vendor"
	default:
		return "/dashboard"
	}
}
