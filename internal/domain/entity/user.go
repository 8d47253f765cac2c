package entity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Role is the two-level authorization role carried by every user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in PasswordHash; reset tokens are
// stored hashed (sha256) and only ever handed out raw via email. A user with
// an outstanding reset flow has both ResetTokenHash and ResetTokenExpires
// set; consuming the token clears both in the same update that sets the new
// password.
type User struct {
	ID                string
	Name              string
	Email             string
	Role              Role
	PasswordHash      string
	Photo             string
	Active            bool
	PasswordChangedAt *time.Time
	ResetTokenHash    string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ChangedPasswordAfter reports whether the password was changed after the
// given token issuance time. Sessions issued before a password change are
// considered revoked.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Compare at second precision; JWT iat has no sub-second resolution.
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// Gravatar returns the gravatar URL for the user's email.
func (u *User) Gravatar() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200"
}
