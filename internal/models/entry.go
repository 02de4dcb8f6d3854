// Package models defines the vault's data model.
package models

import (
	"strings"
	"time"
)

// Entry is one secret record held by the vault. Entries are never
// persisted individually; the whole set is serialized to JSON and sealed
// into a single encrypted blob on every mutation.
type Entry struct {
	// ID is an opaque unique identifier, assigned on first save.
	ID string `json:"id"`

	// Name is the display name, e.g. "bank".
	Name string `json:"name"`

	// Username is the account name associated with the secret.
	Username string `json:"username,omitempty"`

	// Password is the secret value.
	Password string `json:"password,omitempty"`

	// URL is the site or service address.
	URL string `json:"url,omitempty"`

	// Notes holds free-form text.
	Notes string `json:"notes,omitempty"`

	// Group is a free-form label used to bucket entries.
	Group string `json:"group,omitempty"`

	// CreatedAt is the first-save time in UTC.
	CreatedAt time.Time `json:"created_at"`

	// PwdChangedAt is the last time the password field changed, in UTC.
	PwdChangedAt time.Time `json:"pwd_changed_at"`

	// UpdatedAt is the last modification time in UTC.
	UpdatedAt time.Time `json:"updated_at"`
}

// Matches reports whether the query occurs, case-insensitively, in the
// entry's name, username, URL or group. An empty query matches nothing.
func (e *Entry) Matches(query string) bool {
	if query == "" {
		return false
	}
	q := strings.ToLower(query)
	for _, field := range []string{e.Name, e.Username, e.URL, e.Group} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
