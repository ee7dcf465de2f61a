// Package models defines the data structures that map to database tables
// and provides the core types used throughout the forum.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered forum account. Username is the handle callers
// authenticate with and the value the identity resolver looks up.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Author is the public projection of a User attached to entity snapshots.
type Author struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
}

// AsAuthor returns the public projection of the user.
func (u *User) AsAuthor() Author {
	return Author{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
}

// Name returns the display name, falling back to the username.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}
