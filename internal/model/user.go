// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts come from two places: local registration (name, email, bcrypt
// password hash) and Google sign-in (name, email, Google profile ID). Both
// land in the same record — a Google-only account simply has an empty
// PasswordHash, and a local-only account an empty GoogleID.
//
// The email is the identifier the rest of the system keys on: notes
// reference their owner by email, and both login strategies resolve to a
// user by email lookup. Uniqueness is expected but not enforced with a DB
// constraint, so a concurrent first registration for the same email can
// produce duplicates (the lookup-then-insert is not atomic).
//
// WHY PasswordHash string (not *string)?
// An empty string is unambiguous here — bcrypt hashes are never empty — so
// we avoid the nil-checking noise of a pointer. The `json:"-"` tag keeps
// the hash out of every API response.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"` // empty for Google-only accounts
	GoogleID     string    `json:"googleId"  db:"google_id"`     // empty for local accounts
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
