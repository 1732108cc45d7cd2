package mw

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
)

const SessionCookie = "toolshelf_session"

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Store  session.Store
	TTL    time.Duration
	Secure bool
	Logger logger.Logger
}

// sessionWriter persists the session right before the first byte of the
// response, so a redirected browser always sees the updated state.
type sessionWriter struct {
	http.ResponseWriter
	once sync.Once
	save func()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.once.Do(w.save)
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.once.Do(w.save)
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Session loads the caller's session from its cookie, or starts a new one,
// and exposes it through session.FromContext. Changes made by the handler are
// saved back to the store. A stored session that becomes authenticated gets a
// new ID and the old entry is deleted.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, sess, stored := loadSession(ctx, r, cfg)
			wasAuthenticated := sess.Authenticated

			// The request context may already be cancelled when the save runs.
			saveCtx := context.WithoutCancel(ctx)
			sw := &sessionWriter{ResponseWriter: w}
			sw.save = func() {
				if stored && sess.Authenticated && !wasAuthenticated {
					old := id
					id = uuid.NewString()
					if err := cfg.Store.Delete(saveCtx, old); err != nil {
						cfg.Logger.Warn("failed to delete rotated session", logger.Error(err))
					}
				}

				http.SetCookie(w, sessionCookie(id, cfg))
				if err := cfg.Store.Save(saveCtx, id, *sess); err != nil {
					cfg.Logger.Warn("failed to save session", logger.Error(err))
				}
			}

			next.ServeHTTP(sw, r.WithContext(session.NewContext(ctx, sess)))
			sw.once.Do(sw.save)
		})
	}
}

func sessionCookie(id string, cfg SessionConfig) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.TTL > 0 {
		c.MaxAge = int(cfg.TTL.Seconds())
	}
	return c
}

// loadSession reports stored=true when the session came from the store.
func loadSession(ctx context.Context, r *http.Request, cfg SessionConfig) (string, *session.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || uuid.Validate(c.Value) != nil {
		return uuid.NewString(), &session.Session{}, false
	}

	sess, err := cfg.Store.Get(ctx, c.Value)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return uuid.NewString(), &session.Session{}, false
	case err != nil:
		cfg.Logger.Warn("failed to load session, starting a new one", logger.Error(err))
		return uuid.NewString(), &session.Session{}, false
	}
	return c.Value, &sess, true
}
