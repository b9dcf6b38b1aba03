package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Claims is the identity attribute set we keep from the provider's userinfo
// response. Google returns a larger object; we only unmarshal what we use.
type Claims struct {
	Subject string `json:"sub"`   // Google's stable account identifier
	Name    string `json:"name"`  // display name
	Email   string `json:"email"` // verified primary email, our natural key
}

// userinfoURL is Google's OpenID Connect userinfo endpoint.
const userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization Code
// flow with the openid/email/profile scopes.
//
// The exchange is modelled as plain value results: AuthURL gives the redirect
// target, Exchange returns (claims, token, error). There is no hidden state
// beyond the CSRF nonce the handler keeps in a cookie.
//
// REDIRECT URI PER CALL:
// The callback URL is passed into AuthURL and Exchange rather than fixed in
// the config, because it depends on deployment: behind a proxy it comes from
// a configured base URL, locally it's inferred from the incoming request.
// Google requires that the redirect_uri used in the exchange matches the one
// used in the authorize redirect, so both methods take the same value.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials from
// the Google Cloud console.
func NewGoogleProvider(clientID, clientSecret string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google authorization URL to redirect the browser to.
// state is the CSRF nonce verified on callback; redirectURI is where Google
// sends the browser back with the authorization code.
func (p *GoogleProvider) AuthURL(state, redirectURI string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
	)
}

// Exchange completes the flow: trades the authorization code for an access
// token, then calls the userinfo endpoint for the identity claims.
//
// The token is returned alongside the claims because the review application
// persists the raw access token and its expiry with each review.
func (p *GoogleProvider) Exchange(ctx context.Context, code, redirectURI string) (*Claims, *oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, token)

	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if claims.Email == "" {
		return nil, nil, fmt.Errorf("auth: provider returned claims without an email")
	}

	return &claims, token, nil
}
