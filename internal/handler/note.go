package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

// NoteHandler serves the note endpoints. Every route it handles sits behind
// auth.RequireAuth, so the caller's identity is always in the request
// context — the owner email for creates and listings comes from there, never
// from the request body.
type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// noteResponse is the body for create and update: the "ok" message plus the
// affected note. Note is a pointer so an update against a missing ID can
// answer {"message":"ok","note":null} — the shape the client expects.
type noteResponse struct {
	Message string      `json:"message"`
	Note    *model.Note `json:"note"`
}

// noteRequest is the body for POST /add and PUT /add (ID only used by PUT).
type noteRequest struct {
	ID          string `json:"id"`
	Marktext    string `json:"marktext"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleAdd creates a note owned by the caller.
//
// HTTP: POST /add
// BODY: {"marktext": "...", "title": "...", "description": "..."}
// RESPONSE: {"message": "ok", "note": {...}}
func (h *NoteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but fail closed if wired without it.
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthorized, token missing"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("add note: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	note, err := h.notes.Add(r.Context(), identity.Email, req.Title, req.Description, req.Marktext)
	if err != nil {
		h.logger.Error("add note failed",
			slog.String("owner", identity.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Message: "ok", Note: note})
}

// HandleUpdate overwrites a note's content by ID.
//
// HTTP: PUT /add
// BODY: {"id": "...", "marktext": "...", "title": "...", "description": "..."}
// RESPONSE: {"message": "ok", "note": {...}} — or "note": null when the ID
// doesn't exist (still 200; the client checks the note field, not the
// status).
//
// No ownership check — see NoteService.UpdateByID.
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("update note: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	note, err := h.notes.UpdateByID(r.Context(), req.ID, req.Title, req.Description, req.Marktext)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, noteResponse{Message: "ok", Note: nil})
			return
		}
		h.logger.Error("update note failed",
			slog.String("noteID", req.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteResponse{Message: "ok", Note: note})
}

// noteListResponse is the body for GET /get-data.
type noteListResponse struct {
	Message string              `json:"message"`
	Data    []model.NoteSummary `json:"data"`
}

// HandleGetData lists the caller's notes, projected to id/title/description.
//
// HTTP: GET /get-data
// RESPONSE: {"message": "ok", "data": [{"_id": "...", "title": "...", "description": "..."}]}
func (h *NoteHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthorized, token missing"})
		return
	}

	summaries, err := h.notes.ListByOwner(r.Context(), identity.Email)
	if err != nil {
		h.logger.Error("list notes failed",
			slog.String("owner", identity.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteListResponse{Message: "ok", Data: summaries})
}

// searchRequest is the body of POST /search.
type searchRequest struct {
	ID string `json:"_id"`
}

// searchResponse is the hit body for POST /search. "message" is the string
// "true"/"false", not a boolean — a client quirk preserved verbatim.
type searchResponse struct {
	ResultsGot *model.Note `json:"resultsgot"`
	Message    string      `json:"message"`
}

// HandleSearch looks up any note by ID, regardless of owner.
//
// HTTP: POST /search
// BODY: {"_id": "..."}
// RESPONSE: {"resultsgot": {...}, "message": "true"} on a hit,
// {"message": "false"} with status 200 on a miss — absence is data here,
// not an HTTP error.
func (h *NoteHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("search note: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	note, err := h.notes.SearchByID(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, messageResponse{Message: "false"})
			return
		}
		h.logger.Error("search note failed",
			slog.String("noteID", req.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{ResultsGot: note, Message: "true"})
}
