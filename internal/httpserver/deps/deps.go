package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/toolshelf/internal/domain"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
	"github.com/MrSnakeDoc/toolshelf/internal/store/file"
)

// ToolStore is the record store seen by handlers.
type ToolStore interface {
	Load() []domain.Tool
	Append(ctx context.Context, t domain.Tool) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats() file.Stats
}

// Enricher turns a submission into a record.
type Enricher interface {
	Enrich(ctx context.Context, text string) (domain.Tool, error)
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Tools      ToolStore
	Enricher   Enricher
	AIProvider string // ex: "gemini/gemini-2.0-flash"

	Guard        *session.Guard
	Sessions     session.Store
	SessionTTL   time.Duration
	SecureCookie bool
	RedisClient  *redis.Client // nil when sessions live in memory

	RequestTimeout time.Duration // reads and login
	EnrichTimeout  time.Duration // add routes, covers the AI call
	AddRateBurst   int
	AddRatePerMin  int

	AllowedHosts []string // Host header globs, empty = any
	AllowedCIDRS []string // callers allowed on /infra and /readyz
	TrustProxy   bool     // resolve client IP from proxy headers
}
