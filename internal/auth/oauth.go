package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUser is the portion of Google's userinfo response we care about.
// Google returns a larger object — we only unmarshal the fields we need.
//
// API docs: https://developers.google.com/identity/protocols/oauth2
type GoogleUser struct {
	ID            string `json:"id"`             // Google's user ID — stable, never changes
	Name          string `json:"name"`           // Display name, e.g. "Sakif A."
	Email         string `json:"email"`          // Primary email address
	VerifiedEmail bool   `json:"verified_email"` // Whether Google has verified the address
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
// 1. Your server redirects the user to Google's authorization endpoint,
//    with your ClientID and the requested scopes.
// 2. The user approves (or denies) the authorization request on Google.
// 3. Google redirects back to your CallbackURL with a short-lived "code".
// 4. Your server exchanges the code for an access token (server-to-server call).
// 5. Your server uses the access token to call the userinfo API.
//
// WHY SERVER-SIDE EXCHANGE?
// The code-for-token exchange happens server-to-server, using your
// ClientSecret. The access token never touches the user's browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// You get ClientID and ClientSecret from the Google Cloud console
// (APIs & Services → Credentials → OAuth 2.0 Client IDs).
//
// callbackURL must match an "Authorized redirect URI" you configured exactly.
// Example: "http://localhost:3000/auth/google/secrets"
//
// Scopes we request:
//   - "profile" — the user's display name
//   - "email"   — the user's email address (how we key accounts)
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint, // pre-defined Google OAuth endpoints
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// STATE PARAMETER:
// The state is a random string we generate and store in a cookie before
// redirecting. When Google calls back, we verify the returned state matches
// our cookie. This prevents CSRF attacks where an attacker tricks your
// browser into completing an OAuth flow for their account.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// Google user profile. This is the core of the callback handler.
//
// Steps:
//  1. Exchange the code for an OAuth access token (server-to-server)
//  2. Use the token to call Google's userinfo endpoint
//  3. Unmarshal the response into a GoogleUser struct
//
// The returned GoogleUser is handed to the auth service, which looks the
// account up by email and creates it on first login.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	// Step 1: exchange authorization code → OAuth access token.
	// This makes a POST to Google's token endpoint using our ClientSecret.
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// Step 2: call the userinfo API with the token.
	// oauth2.Config.Client returns an *http.Client that automatically adds
	// the "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo API returned status %d", resp.StatusCode)
	}

	// Step 3: unmarshal the JSON response into our GoogleUser struct
	var gUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo response: %w", err)
	}

	if gUser.ID == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty ID)")
	}
	if gUser.Email == "" {
		// Without an email we can't resolve the profile to an account.
		return nil, fmt.Errorf("auth: Google profile has no email address")
	}

	return &gUser, nil
}
