package models

import "time"

// Role constants for the three authorization tiers.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ValidRoles contains all role values accepted at registration.
// Admin accounts are seeded by migration, never self-registered.
var ValidRoles = []string{RoleStudent, RoleTeacher}

// IsValidRole checks if the given role is valid for registration.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Credential is a row in login_credentials. PasswordHash is a bcrypt
// hash and must never be serialized or logged.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Approved     bool   `json:"approved"`
}

// UserProfile is the extended registration record kept in the users table.
type UserProfile struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Zip          string    `json:"zip"`
	Major        *string   `json:"major,omitempty"`
	LevelOfStudy *string   `json:"level_of_study,omitempty"`
	SSN          *string   `json:"-"`
	Experience   *int      `json:"experience,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
