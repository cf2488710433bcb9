package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sakif/memories-api/internal/apperror"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubProfile is the portion of the GitHub /user API response we care
// about. GitHub returns a much larger object; we only unmarshal the fields
// we need.
//
// The fields are pointers so we can tell "absent or null in the response"
// apart from a genuine empty string. validate() rejects both.
//
// GitHub API docs: https://docs.github.com/en/rest/users/users#get-the-authenticated-user
type GitHubProfile struct {
	ID        *int64  `json:"id"`         // GitHub's numeric user ID, stable, never changes
	Login     *string `json:"login"`      // GitHub username
	Name      *string `json:"name"`       // Display name
	AvatarURL *string `json:"avatar_url"` // Profile picture URL
}

// validate enforces the profile schema: id must be a positive number, login
// and name non-empty strings, and avatar_url an absolute URL. A profile that
// fails here turns into a 400-class validation error, matching the contract
// that a malformed provider response is the client's problem (a bad account),
// not a server fault.
func (p *GitHubProfile) validate() error {
	if p.ID == nil || *p.ID == 0 {
		return apperror.ValidationFailed("id", "GitHub profile is missing a user id")
	}
	if p.Login == nil || *p.Login == "" {
		return apperror.ValidationFailed("login", "GitHub profile is missing a login")
	}
	if p.Name == nil || *p.Name == "" {
		return apperror.ValidationFailed("name", "GitHub profile is missing a name")
	}
	if p.AvatarURL == nil {
		return apperror.ValidationFailed("avatar_url", "GitHub profile is missing an avatar URL")
	}
	if u, err := url.Parse(*p.AvatarURL); err != nil || !u.IsAbs() || u.Host == "" {
		return apperror.ValidationFailed("avatar_url", "GitHub profile avatar URL is not a valid URL")
	}
	return nil
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub code-for-token
// exchange.
//
// Unlike a browser-redirect flow, the client app here performs the
// authorization step itself and sends us only the short-lived code. The
// server's job is just the server-to-server half: trade the code for an
// access token using the client secret, then fetch the profile.
//
// TWO CREDENTIAL PAIRS:
// GitHub OAuth apps register a single callback target, so the web frontend
// and the mobile app are separate OAuth app registrations with separate
// client id/secret pairs. The isMobile flag on /register selects which pair
// to exchange with.
type GitHubProvider struct {
	web    *oauth2.Config
	mobile *oauth2.Config

	// profileURL is overridable in tests; defaults to the real GitHub API.
	profileURL string
}

// NewGitHubProvider creates a GitHubProvider with both credential pairs.
// You get client IDs and secrets by registering OAuth Apps at
// https://github.com/settings/developers.
func NewGitHubProvider(webID, webSecret, mobileID, mobileSecret string) *GitHubProvider {
	newConfig := func(id, secret string) *oauth2.Config {
		return &oauth2.Config{
			ClientID:     id,
			ClientSecret: secret,
			Endpoint:     github.Endpoint, // pre-defined GitHub OAuth endpoints
		}
	}
	return &GitHubProvider{
		web:        newConfig(webID, webSecret),
		mobile:     newConfig(mobileID, mobileSecret),
		profileURL: "https://api.github.com/user",
	}
}

// Exchange trades an authorization code for a validated GitHub profile.
//
// Steps:
//  1. Exchange the code for an OAuth access token (server-to-server POST to
//     GitHub's token endpoint, using the credential pair picked by isMobile)
//  2. Call GitHub's /user endpoint with the token
//  3. Unmarshal and validate the response against the profile schema
//
// A failed exchange or profile fetch is an upstream error (the provider
// rejected the code, or the network failed); a profile that decodes but
// fails validation is a validation error. There are no retries.
func (p *GitHubProvider) Exchange(ctx context.Context, code string, isMobile bool) (*GitHubProfile, error) {
	config := p.web
	if isMobile {
		config = p.mobile
	}

	oauthToken, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Upstream("auth: exchanging OAuth code", err)
	}

	// config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := config.Client(ctx, oauthToken)

	resp, err := client.Get(p.profileURL)
	if err != nil {
		return nil, apperror.Upstream("auth: calling GitHub /user API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Upstream("auth: GitHub /user API",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var profile GitHubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperror.Upstream("auth: decoding GitHub /user response", err)
	}

	if err := profile.validate(); err != nil {
		return nil, err
	}

	return &profile, nil
}
