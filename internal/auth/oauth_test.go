package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/memories-api/internal/apperror"
	"golang.org/x/oauth2"
)

func ptr[T any](v T) *T { return &v }

// githubStub is a fake GitHub: a token endpoint and a /user profile
// endpoint, both on one httptest server. It records the client_id used in
// the exchange so tests can verify credential-pair selection.
type githubStub struct {
	server       *httptest.Server
	profileJSON  string
	lastClientID string
	rejectCode   bool
}

func newGitHubStub(t *testing.T, profileJSON string) *githubStub {
	t.Helper()

	stub := &githubStub{profileJSON: profileJSON}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		stub.lastClientID = r.Form.Get("client_id")
		if stub.rejectCode {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_testtoken","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(stub.profileJSON))
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

// provider builds a GitHubProvider pointed at the stub instead of the real
// GitHub endpoints.
func (s *githubStub) provider() *GitHubProvider {
	newConfig := func(id string) *oauth2.Config {
		return &oauth2.Config{
			ClientID:     id,
			ClientSecret: id + "-secret",
			Endpoint: oauth2.Endpoint{
				TokenURL:  s.server.URL + "/login/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}
	return &GitHubProvider{
		web:        newConfig("web-client"),
		mobile:     newConfig("mobile-client"),
		profileURL: s.server.URL + "/user",
	}
}

const validProfileJSON = `{
	"id": 4242,
	"login": "octocat",
	"name": "The Octocat",
	"avatar_url": "https://avatars.githubusercontent.com/u/4242"
}`

func TestExchange_ReturnsValidatedProfile(t *testing.T) {
	stub := newGitHubStub(t, validProfileJSON)

	profile, err := stub.provider().Exchange(context.Background(), "good-code", false)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	if *profile.ID != 4242 {
		t.Errorf("ID = %d, want 4242", *profile.ID)
	}
	if *profile.Login != "octocat" {
		t.Errorf("Login = %q, want %q", *profile.Login, "octocat")
	}
	if *profile.Name != "The Octocat" {
		t.Errorf("Name = %q, want %q", *profile.Name, "The Octocat")
	}
}

// isMobile must select the mobile OAuth app's credentials for the exchange.
func TestExchange_CredentialPairSelection(t *testing.T) {
	stub := newGitHubStub(t, validProfileJSON)
	p := stub.provider()

	if _, err := p.Exchange(context.Background(), "code", false); err != nil {
		t.Fatalf("Exchange(web) error = %v", err)
	}
	if stub.lastClientID != "web-client" {
		t.Errorf("web exchange used client_id %q, want %q", stub.lastClientID, "web-client")
	}

	if _, err := p.Exchange(context.Background(), "code", true); err != nil {
		t.Fatalf("Exchange(mobile) error = %v", err)
	}
	if stub.lastClientID != "mobile-client" {
		t.Errorf("mobile exchange used client_id %q, want %q", stub.lastClientID, "mobile-client")
	}
}

func TestExchange_RejectedCode(t *testing.T) {
	stub := newGitHubStub(t, validProfileJSON)
	stub.rejectCode = true

	_, err := stub.provider().Exchange(context.Background(), "bad-code", false)
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Exchange() error = %v, want ErrUpstream", err)
	}
}

func TestExchange_MalformedProfile(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing id", `{"login":"octocat","name":"The Octocat","avatar_url":"https://a.io/x.png"}`},
		{"null name", `{"id":1,"login":"octocat","name":null,"avatar_url":"https://a.io/x.png"}`},
		{"missing login", `{"id":1,"name":"The Octocat","avatar_url":"https://a.io/x.png"}`},
		{"relative avatar url", `{"id":1,"login":"octocat","name":"The Octocat","avatar_url":"not-a-url"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newGitHubStub(t, tt.json)

			_, err := stub.provider().Exchange(context.Background(), "code", false)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Exchange() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestProfileValidate(t *testing.T) {
	valid := GitHubProfile{
		ID:        ptr(int64(1)),
		Login:     ptr("octocat"),
		Name:      ptr("The Octocat"),
		AvatarURL: ptr("https://avatars.githubusercontent.com/u/1"),
	}
	if err := valid.validate(); err != nil {
		t.Errorf("validate() on a valid profile: %v", err)
	}

	zeroID := valid
	zeroID.ID = ptr(int64(0))
	if err := zeroID.validate(); err == nil {
		t.Error("validate() should reject a zero user id")
	}

	emptyLogin := valid
	emptyLogin.Login = ptr("")
	if err := emptyLogin.validate(); err == nil {
		t.Error("validate() should reject an empty login")
	}

	noHost := valid
	noHost.AvatarURL = ptr("https:///path-only")
	if err := noHost.validate(); err == nil {
		t.Error("validate() should reject an avatar URL without a host")
	}
}
