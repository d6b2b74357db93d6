package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

var _ repository.NoteRepository = (*DB)(nil)

// CreateNote inserts a new note. The generated ID and timestamps are
// written back into the caller's struct, which the handler then echoes to
// the client as the created note.
func (db *DB) CreateNote(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, email, title, description, marktext, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Email,
		note.Title,
		note.Description,
		note.Marktext,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting note: %w", err)
	}

	return nil
}

// GetNoteByID retrieves a single note by its ID, whoever owns it — the
// lookup behind /search, which deliberately carries no ownership filter.
// Returns apperror.ErrNotFound if no note exists with that ID.
func (db *DB) GetNoteByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, title, description, marktext, created_at, updated_at
		 FROM notes WHERE id = ?`,
		id,
	).Scan(
		&n.ID,
		&n.Email,
		&n.Title,
		&n.Description,
		&n.Marktext,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}

	return &n, nil
}

// ListNotesByEmail returns the summaries (id, title, description) of every
// note owned by the given email, oldest first.
//
// ROWS MUST BE CLOSED:
// QueryContext returns *sql.Rows holding a connection from the pool.
// Forgetting rows.Close() leaks that connection — defer it immediately.
func (db *DB) ListNotesByEmail(ctx context.Context, email string) ([]model.NoteSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description FROM notes WHERE email = ? ORDER BY created_at`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes for %s: %w", email, err)
	}
	defer rows.Close()

	// Initialise to an empty slice (not nil) so an owner with no notes
	// serializes as [] rather than null.
	summaries := []model.NoteSummary{}
	for rows.Next() {
		var s model.NoteSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		summaries = append(summaries, s)
	}

	// rows.Err() reports errors that occurred during iteration — a failed
	// Next() just returns false, so this is the only place they surface.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating note rows: %w", err)
	}

	return summaries, nil
}

// UpdateNote overwrites the content fields of the note with note.ID.
// Last writer wins — there is no version column or optimistic check, and no
// ownership filter in the WHERE clause. Returns apperror.ErrNotFound if the
// ID doesn't exist; on success the stored row is read back into note so the
// caller gets the canonical record (owner email, timestamps).
func (db *DB) UpdateNote(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE notes SET title = ?, description = ?, marktext = ?, updated_at = ?
		 WHERE id = ?`,
		note.Title,
		note.Description,
		note.Marktext,
		note.UpdatedAt,
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of note %s: %w", note.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("note", note.ID)
	}

	stored, err := db.GetNoteByID(ctx, note.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back note %s: %w", note.ID, err)
	}
	*note = *stored

	return nil
}
