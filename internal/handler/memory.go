package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/auth"
	"github.com/sakif/memories-api/internal/service"
)

// MemoryHandler manages CRUD operations for memories.
//
// Every route in this group sits behind auth.RequireAuth, so the caller's
// identity is always present in the request context. Each handler extracts
// it once and passes it explicitly into the service; the service never
// touches the context for identity.
type MemoryHandler struct {
	memories *service.MemoryService
	logger   *slog.Logger
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(memories *service.MemoryService, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{
		memories: memories,
		logger:   logger,
	}
}

// memoryRequest is the body of POST /memories and PUT /memories/{id}.
// isPublic defaults to false when omitted.
type memoryRequest struct {
	Content  string `json:"content"`
	CoverURL string `json:"coverUrl"`
	IsPublic bool   `json:"isPublic"`
}

// parseMemoryRequest decodes the request body, returning either a value or a
// validation error. Field-level checks (required content/coverUrl) live in
// the service so every caller gets them.
func parseMemoryRequest(r *http.Request) (*memoryRequest, error) {
	var req memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperror.ValidationFailed("body", "invalid JSON body")
	}
	return &req, nil
}

// caller returns the authenticated user ID set by RequireAuth.
func caller(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}

// HandleList returns all of the caller's memories in ascending creation
// order, projected to {id, coverUrl, excerpt}.
//
// HTTP: GET /memories
func (h *MemoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.memories.List(r.Context(), caller(r))
	if err != nil {
		h.logger.Error("list memories failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// HandleGet returns one full memory record.
//
// HTTP: GET /memories/{id}
//
// 400 for a non-UUID id, 401 with empty body when the memory is private and
// the caller is not the owner.
func (h *MemoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	memory, err := h.memories.Get(r.Context(), caller(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memory)
}

// HandleCreate stores a new memory owned by the caller.
//
// HTTP: POST /memories
// Body: {"content": "...", "coverUrl": "...", "isPublic": false}
func (h *MemoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := parseMemoryRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	memory, err := h.memories.Create(r.Context(), caller(r), req.Content, req.CoverURL, req.IsPublic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, memory)
}

// HandleUpdate fully replaces content, coverUrl, and isPublic on a memory the
// caller owns.
//
// HTTP: PUT /memories/{id}
//
// Non-owners get a 401 with empty body and the record is left unchanged.
func (h *MemoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := parseMemoryRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	memory, err := h.memories.Update(r.Context(), caller(r), r.PathValue("id"),
		req.Content, req.CoverURL, req.IsPublic)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memory)
}

// HandleDelete removes a memory the caller owns.
//
// HTTP: DELETE /memories/{id}
//
// Responds 200 with empty body on success, 401 with empty body for
// non-owners.
func (h *MemoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.memories.Delete(r.Context(), caller(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
