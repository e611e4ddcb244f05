package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bowling/internal/game"
)

func authCookie(t *testing.T, s *Server, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == s.cfg.Auth.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", s.cfg.Auth.CookieName)
	return nil
}

func signup(t *testing.T, s *Server, username string) *http.Cookie {
	t.Helper()
	rec := makeRequest(t, s, http.MethodPost, "/auth/signup", credentials{Username: username, Password: "strike-spare"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return authCookie(t, s, rec)
}

func TestSignupLoginMe(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "lane_keeper")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	rec := makeRequest(t, s, http.MethodGet, "/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decodeBody[authUser](t, rec)
	assert.Equal(t, "lane_keeper", me.Username)
	assert.NotEmpty(t, me.ID)

	rec = makeRequest(t, s, http.MethodPost, "/auth/login", credentials{Username: "LANE_KEEPER", Password: "strike-spare"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, me.ID, decodeBody[authUser](t, rec).ID)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+authCookie(t, s, rec).Value)
	bearer := httptest.NewRecorder()
	s.Router().ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)
}

func TestSignupErrors(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "lane_keeper")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"taken", credentials{Username: "Lane_Keeper", Password: "strike-spare"}, http.StatusConflict, "username_taken"},
		{"short username", credentials{Username: "ab", Password: "strike-spare"}, http.StatusBadRequest, "invalid_signup"},
		{"bad characters", credentials{Username: "lane keeper", Password: "strike-spare"}, http.StatusBadRequest, "invalid_signup"},
		{"short password", credentials{Username: "bowler", Password: "gutter"}, http.StatusBadRequest, "invalid_signup"},
		{"malformed json", `{"username":`, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := makeRequest(t, s, http.MethodPost, "/auth/signup", tt.body)
			assertError(t, rec, tt.status, tt.code)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "lane_keeper")

	rec := makeRequest(t, s, http.MethodPost, "/auth/login", credentials{Username: "lane_keeper", Password: "wrong-password"})
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")

	rec = makeRequest(t, s, http.MethodPost, "/auth/login", credentials{Username: "nobody", Password: "strike-spare"})
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)

	assertError(t, makeRequest(t, s, http.MethodGet, "/auth/me", nil), http.StatusUnauthorized, "unauthorized")

	forged := &http.Cookie{Name: s.cfg.Auth.CookieName, Value: "not.a.jwt"}
	assertError(t, makeRequest(t, s, http.MethodGet, "/auth/me", nil, forged), http.StatusUnauthorized, "unauthorized")

	other := newTestServer(t)
	other.cfg.Auth.JWTSecret = "another-secret"
	foreign := signup(t, other, "lane_keeper")
	assertError(t, makeRequest(t, s, http.MethodGet, "/auth/me", nil, foreign), http.StatusUnauthorized, "unauthorized")
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	cookie := signup(t, s, "lane_keeper")

	rec := makeRequest(t, s, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := authCookie(t, s, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestMyGames(t *testing.T) {
	s := newTestServer(t)
	ann := signup(t, s, "ann_keeps")
	bob := signup(t, s, "bob_keeps")

	rec := makeRequest(t, s, http.MethodPost, "/games", createGameReq{Name: "Ann's Lane", Players: []string{"Ann"}}, ann)
	require.Equal(t, http.StatusCreated, rec.Code)
	annGame := decodeBody[game.Game](t, rec)
	assert.NotEmpty(t, annGame.OwnerID)

	rec = makeRequest(t, s, http.MethodPost, "/games", createGameReq{Name: "Bob's Lane", Players: []string{"Bob"}}, bob)
	require.Equal(t, http.StatusCreated, rec.Code)
	createGame(t, s, "Guest Lane", "Cat")

	rec = makeRequest(t, s, http.MethodGet, "/games/mine", nil, ann)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	mine := decodeBody[[]game.Summary](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, annGame.ID, mine[0].ID)

	assertError(t, makeRequest(t, s, http.MethodGet, "/games/mine", nil), http.StatusUnauthorized, "unauthorized")

	rec = makeRequest(t, s, http.MethodGet, "/games", nil)
	assert.Len(t, decodeBody[[]game.Summary](t, rec), 3)
}
