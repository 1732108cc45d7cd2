package mw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
)

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (session.Session, error) {
	return session.Session{}, errors.New("backend down")
}

func responseSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	mw := Session(SessionConfig{Store: store, TTL: time.Hour, Logger: logger.Nop()})

	login := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		s.Authenticated = true
		s.SetFlash(session.FlashSuccess, "hi")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}))

	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	c := responseSessionCookie(t, rec)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	saved, err := store.Get(context.Background(), c.Value)
	require.NoError(t, err)
	assert.True(t, saved.Authenticated)

	var seen session.Session
	page := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		s.PopFlash()
		seen = *s
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	page.ServeHTTP(rec, req)

	assert.True(t, seen.Authenticated)
	assert.Equal(t, c.Value, responseSessionCookie(t, rec).Value, "id is kept")

	// The popped flash is gone even though the handler never wrote a byte.
	saved, err = store.Get(context.Background(), c.Value)
	require.NoError(t, err)
	assert.Nil(t, saved.Flash)
}

func TestSessionRejectsUnknownCookies(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	h := Session(SessionConfig{Store: store, Logger: logger.Nop()})(okHandler)

	for _, value := range []string{"not-a-uuid", "6f1c1c6e-7d1a-4f3e-9c55-0c7b7f8f9a10"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := responseSessionCookie(t, rec).Value
		assert.NotEqual(t, value, got)
		assert.Len(t, got, 36)
	}
}

func TestSessionBackendFailureStartsFresh(t *testing.T) {
	store := failingStore{Store: session.NewMemoryStore(time.Hour)}

	var authenticated bool
	h := Session(SessionConfig{Store: store, Logger: logger.Nop()})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		authenticated = session.FromContext(r.Context()).Authenticated
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "6f1c1c6e-7d1a-4f3e-9c55-0c7b7f8f9a10"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, authenticated)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionRotatesOnLogin(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	mw := Session(SessionConfig{Store: store, Logger: logger.Nop()})

	visit := mw(okHandler)
	rec := httptest.NewRecorder()
	visit.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first := responseSessionCookie(t, rec)

	login := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.FromContext(r.Context()).Authenticated = true
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}))
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(first)
	rec = httptest.NewRecorder()
	login.ServeHTTP(rec, req)

	rotated := responseSessionCookie(t, rec)
	assert.NotEqual(t, first.Value, rotated.Value)
	assert.Len(t, rec.Result().Cookies(), 1)

	_, err := store.Get(context.Background(), first.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)

	saved, err := store.Get(context.Background(), rotated.Value)
	require.NoError(t, err)
	assert.True(t, saved.Authenticated)

	// Already authenticated sessions keep their ID.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rotated)
	rec = httptest.NewRecorder()
	visit.ServeHTTP(rec, req)
	assert.Equal(t, rotated.Value, responseSessionCookie(t, rec).Value)
}
