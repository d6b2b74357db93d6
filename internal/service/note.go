// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Handlers only know about HTTP. Services only know about business rules.
// Neither knows about SQL. NoteService takes repository.NoteRepository (an
// interface), not *sqlite.DB — tests inject an in-memory fake, and the store
// could be swapped without touching this package.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// NoteService handles business logic for notes.
//
// There is deliberately little of it: notes have no content invariants —
// empty titles and bodies are legal — and no delete operation. The one rule
// that matters is ownership attribution on create: the owner email comes
// from the caller's verified token identity, passed in by the handler, never
// from the request body.
type NoteService struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(notes repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:  notes,
		logger: logger,
	}
}

// Add creates a note owned by ownerEmail and returns the stored record,
// ID and timestamps populated.
func (s *NoteService) Add(ctx context.Context, ownerEmail, title, description, marktext string) (*model.Note, error) {
	if ownerEmail == "" {
		return nil, fmt.Errorf("service/note: owner email must not be empty")
	}

	note := &model.Note{
		Email:       ownerEmail,
		Title:       title,
		Description: description,
		Marktext:    marktext,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("service/note: creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("noteID", note.ID),
		slog.String("owner", note.Email),
	)

	return note, nil
}

// UpdateByID overwrites title, description, and marktext of the note with
// the given ID and returns the updated record.
//
// KNOWN GAP, KEPT ON PURPOSE: there is no ownership check. Any
// authenticated caller who knows (or guesses) a note ID can modify it.
// That is the behaviour the deployed client was built against; tightening
// it is an API change, not a bug fix, so it stays as-is.
// Returns apperror.ErrNotFound if the ID doesn't exist.
func (s *NoteService) UpdateByID(ctx context.Context, id, title, description, marktext string) (*model.Note, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "note id is required")
	}

	note := &model.Note{
		ID:          id,
		Title:       title,
		Description: description,
		Marktext:    marktext,
	}
	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("service/note: updating note %s: %w", id, err)
	}

	s.logger.Info("note updated", slog.String("noteID", id))

	return note, nil
}

// ListByOwner returns the summaries of every note owned by email.
func (s *NoteService) ListByOwner(ctx context.Context, email string) ([]model.NoteSummary, error) {
	if email == "" {
		return nil, fmt.Errorf("service/note: owner email must not be empty")
	}

	summaries, err := s.notes.ListNotesByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/note: listing notes for %s: %w", email, err)
	}

	return summaries, nil
}

// SearchByID looks up a note by its identifier, regardless of who owns it
// (same deliberate gap as UpdateByID — the search endpoint has never
// filtered by caller). Returns apperror.ErrNotFound for an unknown ID; the
// handler maps that to the {"message":"false"} response rather than an
// HTTP error.
func (s *NoteService) SearchByID(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, apperror.NotFound("note", id)
	}

	note, err := s.notes.GetNoteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/note: searching note %s: %w", id, err)
	}

	return note, nil
}
