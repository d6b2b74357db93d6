package repository

import (
	"context"

	"github.com/sakif/notekeeper/internal/model"
)

// UserRepository is the persistence contract for accounts.
//
// There is deliberately no UpdateUser — accounts are written once, on
// registration or first Google login, and only read afterwards.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// NoteRepository is the persistence contract for notes. All operations are
// single-row reads/writes: no transactions, and UpdateNote is last writer
// wins with no concurrency check.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNoteByID(ctx context.Context, id string) (*model.Note, error)
	// ListNotesByEmail returns the projected summary (id, title, description)
	// of every note owned by the given email.
	ListNotesByEmail(ctx context.Context, email string) ([]model.NoteSummary, error)
	// UpdateNote overwrites title, description, and marktext of the note
	// with note.ID. Ownership is NOT checked here or anywhere above.
	UpdateNote(ctx context.Context, note *model.Note) error
}
