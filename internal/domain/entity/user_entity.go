package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
//
// Password is nil for federated-only users (created through an identity
// provider); it holds a bcrypt hash for credential-backed users. Business
// logic must go through HasPassword so the federated-only case cannot be
// forgotten.
type User struct {
	ID            string
	Name          string
	Email         string // stored lowercased, unique
	Password      *string
	Role          Role
	EmailVerified *time.Time
	Image         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// Identity is the minimal authenticated view of a user returned by the
// credential verifier and embedded in session responses.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Identity returns the minimal identity view of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}
