package model

import "time"

// Note represents a saved note.
//
// Email is the owner's address — a loose reference to User.Email, not an
// enforced foreign key. Marktext holds the note body as marked-up text;
// the server never parses it, it's opaque content round-tripped to the
// client editor.
//
// The ID serializes as "_id" because the client was written against a
// document store whose documents carry that field name. Changing it would
// break every deployed client, so the tag preserves the wire contract.
type Note struct {
	ID          string    `json:"_id"         db:"id"`
	Email       string    `json:"email"       db:"email"` // owner's email, set from the bearer token
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Marktext    string    `json:"marktext"    db:"marktext"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// NoteSummary is the projected shape returned by the note listing: only the
// identifier, title, and description — the body stays out of list responses
// so the dashboard doesn't pull every note's full text.
type NoteSummary struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
