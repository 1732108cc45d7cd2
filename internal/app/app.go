package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/toolshelf/internal/config"
	"github.com/MrSnakeDoc/toolshelf/internal/enrich"
	"github.com/MrSnakeDoc/toolshelf/internal/enrich/gemini"
	"github.com/MrSnakeDoc/toolshelf/internal/enrich/openai"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver"
	"github.com/MrSnakeDoc/toolshelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/toolshelf/internal/logger"
	"github.com/MrSnakeDoc/toolshelf/internal/redis"
	"github.com/MrSnakeDoc/toolshelf/internal/scheduler"
	"github.com/MrSnakeDoc/toolshelf/internal/session"
	"github.com/MrSnakeDoc/toolshelf/internal/store/file"
	redisstore "github.com/MrSnakeDoc/toolshelf/internal/store/redis"
	"github.com/MrSnakeDoc/toolshelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	collector   *scheduler.SessionCollector // nil with redis sessions
}

// generator is what app needs from an AI backend.
type generator interface {
	enrich.Generator
	Name() string
}

// New loads the configuration and wires every component. Any error here is
// fatal and is returned before the server listens.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	log.Debugf("configuration: %+v", cfg.Redacted())

	prompt, err := enrich.LoadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("enrichment provider ready", logger.String("provider", gen.Name()))

	a := &App{cfg: cfg, logger: log}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		a.redisClient, err = redis.New(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		sessions = redisstore.NewSessionStore(a.redisClient, cfg.SessionTTL)
		log.Info("sessions stored in redis", logger.String("addr", cfg.RedisAddr))
	} else {
		mem := session.NewMemoryStore(cfg.SessionTTL)
		sessions = mem
		a.collector = scheduler.NewSessionCollector(mem, log, cfg.SessionGCInterval)
		log.Info("sessions stored in memory")
	}

	tools := file.New(cfg.ToolsFile, log)
	log.Info("tool collection loaded",
		logger.String("path", cfg.ToolsFile),
		logger.Int("records", len(tools.Load())))

	d := deps.Deps{
		Logger:    log,
		StartTime: time.Now(),
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		GoVersion: version.GoVersion,

		Tools:      tools,
		Enricher:   enrich.NewClient(gen, prompt, log),
		AIProvider: gen.Name(),

		Guard:        session.NewGuard(cfg.AppPassword),
		Sessions:     sessions,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
		RedisClient:  a.redisClient,

		RequestTimeout: cfg.RequestTimeout,
		EnrichTimeout:  cfg.EnrichTimeout,
		AddRateBurst:   cfg.AddRateBurst,
		AddRatePerMin:  cfg.AddRatePerMin,

		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
	}

	a.server = httpserver.New(cfg, log, d)
	return a, nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (generator, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(cfg.AIModel)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.New(cfg.OpenAIAPIKey, opts...)
	default:
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.AIModel)
	}
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	a.logger.Infof("🚀 Starting toolshelf %s on %s", version.Version, a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.collector != nil {
		a.collector.Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		if a.collector != nil {
			a.collector.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.logger.Warnf("failed to close redis: %v", cerr)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	_ = a.logger.Sync()

	if err != nil {
		return err
	}
	a.logger.Info("✅ toolshelf stopped cleanly")
	return nil
}
