package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the session value.
type contextKey string

const sessionKey contextKey = "session"

// RequireUser gates a route on a valid session cookie.
//
// Unlike an API, a missing or invalid session here never produces a 401:
// the user is redirected to the anonymous entry point to log in. The store
// is not touched on that path.
func RequireUser(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromRequest(r, sessions)
			if err != nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the session placed by RequireUser.
// Returns (nil, false) when the request is anonymous.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok && sess != nil
}

// sessionFromRequest reads and validates the session cookie.
func sessionFromRequest(r *http.Request, sessions *SessionService) (*Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie: anonymous request
		return nil, err
	}
	return sessions.Parse(cookie.Value)
}

// CurrentSession reads the session straight off the request, for handlers
// that are not behind RequireUser (the home page decides between the login
// page and a redirect based on it).
func CurrentSession(r *http.Request, sessions *SessionService) (*Session, bool) {
	sess, err := sessionFromRequest(r, sessions)
	return sess, err == nil
}
