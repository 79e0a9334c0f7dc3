package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUser is the verified identity extracted from Google, either from an
// ID token or from the userinfo endpoint after a code exchange. These are
// the only Google claims the rest of the app ever sees — nothing
// client-supplied is trusted.
type GoogleUser struct {
	Sub     string `json:"sub"`     // Google's stable subject id
	Email   string `json:"email"`   // verified email address
	Name    string `json:"name"`    // display name (may be empty)
	Picture string `json:"picture"` // avatar URL (may be empty)
}

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleProvider verifies Google identities server-side.
//
// Two entry points, both ending in the same verified GoogleUser:
//
//   - VerifyIDToken: the SPA obtains an ID token ("credential") from Google
//     Identity Services and posts it to /api/auth/google. We hand the token
//     to Google's tokeninfo endpoint, which checks the signature for us, and
//     then confirm the audience is OUR client id and the email is verified.
//     Trusting the caller's email/name directly would let anyone mint an
//     account for any address.
//
//   - AuthURL/Exchange: the classic authorization-code flow for browser
//     redirects. The code-for-token exchange is server-to-server with our
//     client secret, so the identity comes straight from Google.
type GoogleProvider struct {
	config *oauth2.Config
	// client is the HTTP client used for tokeninfo lookups; tests point it
	// at a local stub server via tokenInfoURL.
	client       *http.Client
	tokenInfoURL string
}

// NewGoogleProvider creates a GoogleProvider with the given OAuth app
// credentials. callbackURL must exactly match an authorized redirect URI of
// the Google OAuth client.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		client:       http.DefaultClient,
		tokenInfoURL: googleTokenInfoURL,
	}
}

// AuthURL returns the Google authorization page URL for the redirect flow.
// The state is a random value stored in a cookie beforehand; the callback
// handler compares the returned state against it (CSRF protection).
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the authorization-code flow: trades the code for an
// access token and fetches the user's profile from the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that attaches the
	// bearer token to every request.
	client := p.config.Client(ctx, token)

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var gu GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo response: %w", err)
	}

	if gu.Sub == "" || gu.Email == "" {
		return nil, fmt.Errorf("auth: Google returned an incomplete identity")
	}

	return &gu, nil
}

// tokenInfo is the subset of Google's tokeninfo response we check. All
// values arrive as strings regardless of their logical type.
type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// VerifyIDToken validates a Google ID token and returns the identity it
// asserts.
//
// Google's tokeninfo endpoint verifies the signature and expiry; a bad or
// expired token comes back as a non-200. We still must check the audience
// ourselves — a valid token minted for some OTHER app would otherwise let
// its users into ours — and we refuse unverified email addresses.
func (p *GoogleProvider) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUser, error) {
	if idToken == "" {
		return nil, fmt.Errorf("auth: empty ID token")
	}

	u := p.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building tokeninfo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google rejected the ID token (status %d)", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth: decoding tokeninfo response: %w", err)
	}

	if info.Aud != p.config.ClientID {
		return nil, fmt.Errorf("auth: ID token audience mismatch")
	}
	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("auth: ID token carries no identity")
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("auth: Google email is not verified")
	}

	return &GoogleUser{
		Sub:     info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
