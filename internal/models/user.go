package models

import (
	"time"
)

// User is the full credential record. It must never be serialised to clients;
// use SafeUser for anything that leaves the service.
type User struct {
	ID                       string     `json:"-"`
	PublicID                 string     `json:"publicId"`
	Email                    string     `json:"email"`
	Name                     string     `json:"name"`
	Username                 *string    `json:"username"`
	PasswordHash             string     `json:"-"`
	RefreshTokenHash         *string    `json:"-"` // nil when the user has no active session
	EmailValidated           bool       `json:"emailValidated"`
	EmailValidationTokenHash *string    `json:"-"`
	EmailValidationSentAt    *time.Time `json:"-"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// UserUpdate lists the profile fields a user may change. Nil fields are left
// untouched.
type UserUpdate struct {
	Name     *string
	Username *string
}

// IsEmpty reports whether the update changes nothing
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Username == nil
}

// HasSession reports whether a refresh token is currently stored for the user
func (u *User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// ValidationIssuedAt is the start of the email validation window
func (u *User) ValidationIssuedAt() time.Time {
	if u.EmailValidationSentAt != nil {
		return *u.EmailValidationSentAt
	}
	return u.CreatedAt
}

// SafeUser is the projection of User exposed over the API
type SafeUser struct {
	PublicID       string    `json:"publicId"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Username       *string   `json:"username"`
	EmailValidated bool      `json:"emailValidated"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Safe returns the public projection of the user
func (u *User) Safe() *SafeUser {
	return &SafeUser{
		PublicID:       u.PublicID,
		Email:          u.Email,
		Name:           u.Name,
		Username:       u.Username,
		EmailValidated: u.EmailValidated,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
