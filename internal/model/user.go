// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Identity is email/password. The password is stored only as a bcrypt hash,
// and the OpenAI API key only in encrypted form — both fields are tagged
// `json:"-"` so they can never leak into an API response by accident.
//
// WHY APIKeyEncrypted string (not *string)?
// An empty string means "no key stored". Using the zero value instead of a
// nullable pointer keeps the struct comparable and the checks simple
// (u.APIKeyEncrypted != "").
type User struct {
	ID              string    `json:"id"              db:"id"`
	Email           string    `json:"email"           db:"email"`
	Name            string    `json:"name"            db:"name"`
	PasswordHash    string    `json:"-"               db:"password_hash"`
	APIKeyEncrypted string    `json:"-"               db:"api_key_encrypted"`
	LinkedinEnabled bool      `json:"linkedinEnabled" db:"linkedin_enabled"`
	CreatedAt       time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       db:"updated_at"`
}

// HasAPIKey reports whether an encrypted API key is stored for the user.
// This is the server-side truth the onboarding oracle endpoint exposes.
func (u *User) HasAPIKey() bool {
	return u.APIKeyEncrypted != ""
}
