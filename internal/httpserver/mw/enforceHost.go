package mw

import (
	"net/http"

	"github.com/gobwas/glob"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

// EnforceHost rejects requests whose Host header matches none of the
// patterns. Patterns are globs ("*.example.com", "tools.lan:*"); an empty
// list disables the check. Invalid patterns match nothing.
func EnforceHost(patterns []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(patterns) == 0 {
		log.Debug("EnforceHost: no host patterns, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}
	globs := compileHosts(patterns, log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, g := range globs {
				if g.Match(r.Host) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Debug("EnforceHost: rejected", logger.String("host", r.Host))
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

func compileHosts(patterns []string, log logger.Logger) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			log.Warn("EnforceHost: invalid host pattern ignored",
				logger.String("pattern", p),
				logger.Error(err))
			continue
		}
		globs = append(globs, g)
	}
	return globs
}
