package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/auth"
	"github.com/sakif/memories-api/internal/service"
)

// AuthHandler manages registration and the current-user endpoint.
//
//   - HandleRegister → exchange a GitHub OAuth code for a bearer token
//   - HandleMe       → return the authenticated user's profile
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

// registerRequest is the body of POST /register.
// isMobile selects which registered OAuth app (web or mobile) the code was
// issued for; it defaults to false when omitted.
type registerRequest struct {
	Code     string `json:"code"`
	IsMobile bool   `json:"isMobile"`
}

// parseRegisterRequest decodes and validates the request body, returning
// either a usable value or a validation error. No thrown-exception control
// flow: the handler branches on the result.
func parseRegisterRequest(r *http.Request) (*registerRequest, error) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperror.ValidationFailed("body", "invalid JSON body")
	}
	if req.Code == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}
	return &req, nil
}

// HandleRegister completes the OAuth login flow.
//
// HTTP: POST /register
// Body: {"code": "...", "isMobile": false}
//
// Responds {"token": "<jwt>"} on success. A provider failure (bad code,
// network error) is a 500; a malformed GitHub profile is a 400.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := parseRegisterRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.Register(r.Context(), req.Code, req.IsMobile)
	if err != nil {
		h.logger.Error("register failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /me
// Auth: required (RequireAuth middleware sets userID in context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("me: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
