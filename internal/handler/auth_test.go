package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/handler"
	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/service"
)

type memUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (m *memUserRepo) Upsert(_ context.Context, user *model.User) error {
	if existing, ok := m.users[user.Email]; ok {
		existing.Name = user.Name
		user.ID = existing.ID
		return nil
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

type authFixture struct {
	handler  *handler.AuthHandler
	sessions *auth.SessionService
	users    *memUserRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newMemUserRepo()
	sessions := newTestSessions(t)
	logger := testLogger()
	svc := service.NewAuthService(users, sessions, logger)
	google := auth.NewGoogleProvider("test-client-id", "test-client-secret")
	h := handler.NewAuthHandler(google, sessions, svc, newTestRenderer(t), logger,
		"", "/map", "Friend Map")
	return &authFixture{handler: h, sessions: sessions, users: users}
}

func TestHandleHome_Anonymous(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	f.handler.HandleHome(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Friend Map")
}

func TestHandleHome_LoggedInRedirects(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, f.sessions, testAna))
	rec := httptest.NewRecorder()
	f.handler.HandleHome(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/map", rec.Header().Get("Location"))
}

func TestHandleLogin_SetsStateAndRedirects(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	f.handler.HandleLogin(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "redirect_uri=")

	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c
		}
	}
	if assert.NotNil(t, state, "login must set the state cookie") {
		assert.NotEmpty(t, state.Value)
		assert.True(t, state.HttpOnly)
		assert.Contains(t, location, "state="+state.Value)
	}
}

func TestHandleCallback_MissingState(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth?code=abc&state=xyz", nil)
	rec := httptest.NewRecorder()
	f.handler.HandleCallback(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, f.users.users, "a failed callback must not create users")
}

func TestHandleCallback_MismatchedState(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rec := httptest.NewRecorder()
	f.handler.HandleCallback(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, f.users.users)
}

func TestHandleCallback_ProviderError(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth?error=access_denied&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
	rec := httptest.NewRecorder()
	f.handler.HandleCallback(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	f := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(sessionCookie(t, f.sessions, testAna))
	rec := httptest.NewRecorder()
	f.handler.HandleLogout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c
		}
	}
	if assert.NotNil(t, cleared, "logout must rewrite the session cookie") {
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}
}
