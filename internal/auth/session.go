// Package auth provides the Google OAuth provider, the cookie session codec,
// and the middleware gating authenticated routes.
//
// SESSION MODEL:
// The session is a signed JWT in an HttpOnly cookie. The token carries a
// serialised copy of the user (id, name, email) plus the OAuth access token
// metadata captured at login. Nothing is stored server-side: presence of a
// validly signed cookie IS the session, and it is trusted for its lifetime
// without re-checking the provider. Logout just deletes the cookie.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/davidrq/friendmap/internal/model"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "session"

// sessionTTL bounds how long a login lasts before the user is sent back
// through the provider.
const sessionTTL = 12 * time.Hour

// fallbackTokenTTL is assumed when the provider response carries no expiry.
// 3599 seconds is what Google reports for its access tokens.
const fallbackTokenTTL = 3599 * time.Second

// Session is the authenticated state carried by the cookie: the cached user
// plus the access token and its issue/expiry times. TokenIssuedAt and
// TokenExpiresAt default to "now" and "now+3599s" when the provider omits
// them (Issue applies the defaults).
type Session struct {
	User           model.User
	AccessToken    string
	TokenIssuedAt  time.Time
	TokenExpiresAt time.Time
}

// sessionClaims is the JWT payload. The user and token metadata ride in
// private claims next to the registered set.
type sessionClaims struct {
	jwt.RegisteredClaims
	User           model.User `json:"user"`
	AccessToken    string     `json:"accessToken,omitempty"`
	TokenIssuedAt  int64      `json:"tokenIssuedAt,omitempty"`
	TokenExpiresAt int64      `json:"tokenExpiresAt,omitempty"`
}

// SessionService signs and validates session cookies with an HMAC secret.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService. The secret should be at least
// 32 bytes of random data in production (e.g. openssl rand -hex 32).
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// Issue serialises the user and token metadata into a signed session token.
//
// token may be nil (no metadata to carry). When it is present but missing an
// expiry, the fallback of now+3599s applies; the issue time is always "now"
// because the exchange has just happened.
func (s *SessionService) Issue(user *model.User, token *oauth2.Token) (string, error) {
	now := time.Now()

	c := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    "friendmap",
		},
		User: *user,
	}

	if token != nil {
		c.AccessToken = token.AccessToken
		c.TokenIssuedAt = now.Unix()
		expiry := token.Expiry
		if expiry.IsZero() {
			expiry = now.Add(fallbackTokenTTL)
		}
		c.TokenExpiresAt = expiry.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session: %w", err)
	}

	return signed, nil
}

// Parse validates a session token string and returns the Session it carries.
func (s *SessionService) Parse(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("friendmap"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: session expired")
		}
		return nil, fmt.Errorf("auth: invalid session: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid session claims")
	}
	if c.User.Email == "" {
		return nil, fmt.Errorf("auth: session has no user")
	}

	sess := &Session{
		User:        c.User,
		AccessToken: c.AccessToken,
	}
	if c.TokenIssuedAt != 0 {
		sess.TokenIssuedAt = time.Unix(c.TokenIssuedAt, 0)
	}
	if c.TokenExpiresAt != 0 {
		sess.TokenExpiresAt = time.Unix(c.TokenExpiresAt, 0)
	}

	return sess, nil
}

// SetCookie writes the session cookie on the response.
//
// HttpOnly keeps it away from page scripts; SameSite=Lax still sends it on
// the top-level navigation back from the provider.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie deletes the session cookie. This is all logout does: the JWT
// itself stays technically valid until it expires, but the browser no longer
// holds it.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
