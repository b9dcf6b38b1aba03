package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/xid"

	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/service"
)

// stateCookie names the CSRF nonce cookie used around the OAuth redirect.
const stateCookie = "oauth_state"

// AuthHandler owns the login pages and the OAuth round trip.
//
//	GET /       → login page, or redirect to the main view when logged in
//	GET /login  → redirect the browser to Google's authorization page
//	GET /auth   → provider callback: exchange code, upsert user, set session
//	GET /logout → clear the session cookie
type AuthHandler struct {
	google   *auth.GoogleProvider
	sessions *auth.SessionService
	service  *service.AuthService
	renderer *Renderer
	logger   *slog.Logger

	// baseURL, when configured, is the externally visible origin used to
	// build the callback URL behind a proxy. Empty means "infer from the
	// incoming request".
	baseURL string
	// homePath is where authenticated users land: /map or /reviews.
	homePath string
	// appTitle names the variant on the login page.
	appTitle string
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected; the
// handler constructs nothing itself.
func NewAuthHandler(
	google *auth.GoogleProvider,
	sessions *auth.SessionService,
	svc *service.AuthService,
	renderer *Renderer,
	logger *slog.Logger,
	baseURL, homePath, appTitle string,
) *AuthHandler {
	return &AuthHandler{
		google:   google,
		sessions: sessions,
		service:  svc,
		renderer: renderer,
		logger:   logger,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		homePath: homePath,
		appTitle: appTitle,
	}
}

// HandleHome serves the anonymous entry point.
//
// HTTP: GET /
// A valid session skips the login page entirely.
func (h *AuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentSession(r, h.sessions); ok {
		http.Redirect(w, r, h.homePath, http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "login.html", map[string]any{
		"Title": h.appTitle,
	})
}

// HandleLogin starts the OAuth flow.
//
// HTTP: GET /login
//
// The random state lands in a short-lived HttpOnly cookie; the callback
// checks that Google echoed the same value back, which proves the flow was
// started by this server and not forged cross-site.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // long enough to approve, short enough to limit replay
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state, h.callbackURL(r)), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow.
//
// HTTP: GET /auth?code=xxx&state=yyy
//
// Every failure on this path (bad state, provider error, failed exchange,
// failed upsert) degrades the same way: log it and send the browser back
// to the anonymous entry point. The user retries by logging in again; they
// never see a crash page.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: missing or mismatched state")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: provider returned error", slog.String("error", errParam))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("auth callback: missing code")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	claims, token, err := h.google.Exchange(r.Context(), code, h.callbackURL(r))
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	result, err := h.service.LoginOrRegister(r.Context(), claims, token)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("email", claims.Email),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	auth.SetCookie(w, result.SessionToken)
	http.Redirect(w, r, h.homePath, http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// callbackURL builds the redirect_uri Google sends the browser back to.
// Behind a proxy the configured base URL wins; locally the scheme and host
// come straight off the request.
func (h *AuthHandler) callbackURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL + "/auth"
	}

	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/auth"
}
