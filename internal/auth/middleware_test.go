package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// okHandler records whether it ran and what user ID it saw in the context.
type okHandler struct {
	called bool
	userID string
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID, _ = UserIDFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	user := testUser()

	token, err := ts.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	next := &okHandler{}
	guard := RequireAuth(ts)(next)

	req := httptest.NewRequest(http.MethodGet, "/memories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	guard.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !next.called {
		t.Fatal("handler was not called for a valid token")
	}
	if next.userID != user.ID {
		t.Errorf("context userID = %q, want %q", next.userID, user.ID)
	}
}

// Requests without a usable bearer token must be rejected before the handler
// runs.
func TestRequireAuth_Rejections(t *testing.T) {
	ts := newTestTokenService(t)

	expired, err := ts.GenerateWithDuration(testUser(), -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &okHandler{}
			guard := RequireAuth(ts)(next)

			req := httptest.NewRequest(http.MethodGet, "/memories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			guard.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if next.called {
				t.Error("handler ran despite invalid authentication")
			}
		})
	}
}

func TestUserIDFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext() = (%q, %v), want (\"\", false)", id, ok)
	}
}
