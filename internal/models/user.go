package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role is the closed set of user roles. Free-form role strings from the
// outside world go through ParseRole exactly once, at the boundary.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole resolves a role value case-insensitively and rejects anything
// outside the known set.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleModerator):
		return RoleModerator, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// usernamePattern mirrors the allowed character set for usernames.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ReservedUsername is claimed by the self-management endpoint and can never
// name an account.
const ReservedUsername = "me"

// ValidateUsername checks the username character set, the length limit and
// the reserved name. Returns a human-readable reason on failure.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > 150 {
		return fmt.Errorf("username must be at most 150 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and .@+-")
	}
	if strings.EqualFold(username, ReservedUsername) {
		return fmt.Errorf("username %q is reserved", ReservedUsername)
	}
	return nil
}

// User represents an account of the review service.
type User struct {
	ID        string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150)" validate:"required,max=150"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254)" validate:"required,email,max=254"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)" validate:"omitempty,max=150"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)" validate:"omitempty,max=150"`
	Bio       string    `json:"bio"`
	Role      Role      `json:"role" gorm:"type:varchar(16);default:user"`
	Superuser bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user holds admin rights, including the
// superuser override.
func (u *User) IsAdmin() bool {
	return u.Superuser || u.Role == RoleAdmin
}
