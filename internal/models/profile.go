package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleDriver     Role = "driver"
	RoleSupervisor Role = "supervisor"
)

// Profile represents an application user layered over the login identity.
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Role         Role               `bson:"role" json:"role"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// MarshalJSON adds the derived legacy email as a display field.
func (p Profile) MarshalJSON() ([]byte, error) {
	type profileAlias Profile
	return json.Marshal(struct {
		profileAlias
		Email string `json:"email"`
	}{
		profileAlias: profileAlias(p),
		Email:        LegacyEmail(p.Username),
	})
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// CreateUserRequest is the supervisor-side account provisioning payload.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest is the supervisor-side account edit payload. Empty
// fields are left unchanged; Password empty keeps the current credential.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

// UpdateProfileRequest is the owner-side profile edit payload.
type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
	Password  string `json:"password"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleDriver, RoleSupervisor:
		return true
	default:
		return false
	}
}

// LegacyEmail maps a username to the internal email format the first
// FleetCheck deployment used for password sign-in.
func LegacyEmail(username string) string {
	name := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(username))), ".")
	return name + "@fleetcheck.local"
}
