package models

import "time"

// Role is the application-defined role claim of an identity.
type Role string

const (
	RoleNone      Role = ""
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// Valid reports whether r is a selectable role.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

// Identity is the caller as asserted by the session provider's token.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

// Profile persists the role selected during onboarding together with the
// display fields shown to recruiters.
type Profile struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Role      Role      `gorm:"not null" json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
