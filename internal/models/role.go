package models

import "strings"

// UserRole is the portal role resolved from the backend user record.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// ParseUserRole normalises a backend role string. Unknown roles yield "".
func ParseUserRole(raw string) UserRole {
	switch UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleInstructor:
		return RoleInstructor
	case RoleStudent:
		return RoleStudent
	default:
		return ""
	}
}

// LandingPath is the dashboard a role is redirected to after sign-in.
func (r UserRole) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleInstructor:
		return "/dashboard/instructor"
	case RoleStudent:
		return "/dashboard/student"
	default:
		return "/login"
	}
}
