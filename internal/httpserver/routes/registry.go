package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional middlewares applied to all its routes.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll is called once from httpserver.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
}

func sessions(d deps.Deps) Middleware {
	return mw.Session(mw.SessionConfig{
		Store:  d.Sessions,
		TTL:    d.SessionTTL,
		Secure: d.SecureCookie,
		Logger: d.Logger,
	})
}

func addLimiter(d deps.Deps) *mw.RateLimiter {
	return mw.NewRateLimiter(mw.RateLimitConfig{
		Burst:        d.AddRateBurst,
		RefillPerMin: d.AddRatePerMin,
		MaxEntries:   10_000,
		TrustProxy:   d.TrustProxy,
	})
}

// timeout bounds the request context; zero or negative disables it.
func timeout(limit time.Duration) Middleware {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.Timeout(limit)
}
