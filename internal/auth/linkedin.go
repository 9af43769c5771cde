package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// linkedinEndpoint is LinkedIn's OAuth 2.0 authorization-code endpoint pair.
var linkedinEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
	TokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
}

const linkedinProfileURL = "https://api.linkedin.com/v2/me"

// LinkedInProfile is the portion of the LinkedIn profile response we care
// about. LinkedIn returns a much larger object — we only unmarshal the
// fields we need.
type LinkedInProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"localizedFirstName"`
	LastName  string `json:"localizedLastName"`
}

// LinkedInProvider wraps golang.org/x/oauth2 for the LinkedIn
// Authorization Code flow.
//
// FLOW:
//  1. The server hands the client an authorization URL (AuthURL) carrying a
//     random state value.
//  2. The user approves on LinkedIn, which redirects back with a code.
//  3. The server exchanges the code for an access token server-to-server
//     (the ClientSecret never reaches the browser) and fetches the profile.
//
// The provider may be unconfigured (missing client credentials) — the app
// still starts and the LinkedIn routes report the feature unavailable.
type LinkedInProvider struct {
	config *oauth2.Config
}

// NewLinkedInProvider creates a provider with the given credentials.
// Returns nil if clientID or clientSecret is empty, which callers treat as
// "LinkedIn OAuth not configured".
func NewLinkedInProvider(clientID, clientSecret, callbackURL string) *LinkedInProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"r_liteprofile", "r_emailaddress"},
			Endpoint:     linkedinEndpoint,
		},
	}
}

// NewOAuthState returns a random URL-safe state value. The caller stores it
// (cookie or session) and verifies it on callback to prevent CSRF — an
// attacker must not be able to complete an OAuth flow on someone else's
// behalf.
func NewOAuthState() (string, error) {
	var b [24]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("auth: generating OAuth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// AuthURL returns the URL to redirect the user to for authorization.
func (p *LinkedInProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// LinkedIn profile.
func (p *LinkedInProvider) Exchange(ctx context.Context, code string) (*LinkedInProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	client := p.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building profile request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: fetching LinkedIn profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth: LinkedIn profile request failed: %s: %s", resp.Status, body)
	}

	var profile LinkedInProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decoding LinkedIn profile: %w", err)
	}
	return &profile, nil
}
