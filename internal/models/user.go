// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a permission level a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// RoleSet is the collection of roles attached to a principal. It is stored
// as a comma-joined text column; every registered user holds at least
// RoleUser.
type RoleSet []Role

// Has returns true if the set contains the given role.
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// String joins the set for storage ("user,admin").
func (rs RoleSet) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// ParseRoleSet rebuilds a RoleSet from its stored form. Unknown or empty
// entries are dropped; an empty column yields an empty set.
func ParseRoleSet(s string) RoleSet {
	var rs RoleSet
	for _, part := range strings.Split(s, ",") {
		switch Role(strings.TrimSpace(part)) {
		case RoleUser:
			rs = append(rs, RoleUser)
		case RoleAdmin:
			rs = append(rs, RoleAdmin)
		}
	}
	return rs
}

// User represents a registered account with authentication and 2FA fields.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Roles        RoleSet   `json:"roles"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Roles.Has(RoleAdmin)
}

// Needs2FASetup returns true if an admin has not completed TOTP enrollment.
// Admin accounts must set up 2FA on their first login; regular users never do.
func (u *User) Needs2FASetup() bool {
	return u.IsAdmin() && !u.TOTPEnabled
}
