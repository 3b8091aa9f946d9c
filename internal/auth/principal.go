// Package auth issues and verifies admin session tokens and defines the
// Principal that admin operations receive as their authorization context.
package auth

// Role is the coarse capability carried by a session.
type Role string

const RoleAdmin Role = "admin"

// Principal is the caller of an operation as established by a verified
// session. The zero value is an anonymous caller.
type Principal struct {
	Subject string
	Role    Role
}

// IsAdmin reports whether the caller may moderate and update admin data.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin && p.Subject != ""
}
