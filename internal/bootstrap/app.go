package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/generation"
	"resume-maker/internal/llm/ollama"
	"resume-maker/internal/resumes"
	"resume-maker/internal/services/health"
	"resume-maker/internal/shared/cache"
	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/server"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/storage/db"
	mongostore "resume-maker/internal/shared/storage/mongo"
	"resume-maker/internal/shared/telemetry"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	storeMongo    = "mongo"

	connectTimeout = 15 * time.Second
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Mongo          *mongostore.Store
	Cache          cache.Cache
	Generator      *generation.Client
	ResumesRepo    resumes.Repo
	ResumesService *resumes.Service
	ResumesHandler *resumes.Handler
	HealthService  *health.Service
}

// Build wires configuration, stores, the generation client, services and the router.
func Build(cfg config.Config) (*App, error) {
	cfg = withDefaults(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	app := &App{Config: cfg}

	repo, err := app.buildResumeRepo(ctx)
	if err != nil {
		return nil, err
	}
	app.ResumesRepo = repo
	app.Cache = buildCache(ctx, cfg)
	app.Generator = BuildGenerator(cfg)

	app.ResumesService = &resumes.Service{
		Repo:      app.ResumesRepo,
		Generator: app.Generator,
		Cache:     app.Cache,
	}
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	app.HealthService = app.buildHealth()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: app.ResumesHandler,
		HealthHandler: health.NewHandler(app.HealthService),
		Limiter:       middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"resume_store": cfg.ResumeStore,
		"cache":        app.Cache.Enabled(),
		"mock_mode":    app.Generator.MockMode(),
		"model":        cfg.OllamaModel,
	})
	return app, nil
}

// BuildGenerator constructs the generation client for cfg.
func BuildGenerator(cfg config.Config) *generation.Client {
	genCfg := generation.Config{
		BaseURL:    cfg.OllamaBaseURL,
		Model:      cfg.OllamaModel,
		Timeout:    cfg.AITimeout,
		MaxRetries: cfg.AIMaxRetries,
		BaseDelay:  cfg.AIRetryDelay,
		MockMode:   cfg.AIMockMode,
	}
	if genCfg.MockMode {
		return generation.NewClient(genCfg, nil)
	}
	return generation.NewClient(genCfg, ollama.NewClient(cfg.OllamaBaseURL, &http.Client{}))
}

// Close releases external connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Mongo != nil {
		errs = append(errs, a.Mongo.Close(ctx))
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	return errors.Join(errs...)
}

func (a *App) buildResumeRepo(ctx context.Context) (resumes.Repo, error) {
	cfg := a.Config
	switch cfg.ResumeStore {
	case storePostgres:
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err == nil {
			err = db.RunMigrations(ctx, sqlDB)
			if err != nil {
				sqlDB.Close()
			}
		}
		if err != nil {
			return a.memoryFallback("postgres", err)
		}
		a.DB = sqlDB
		return &resumes.PGRepo{DB: sqlDB}, nil
	case storeMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return a.memoryFallback("mongo", err)
		}
		repo := resumes.NewMongoRepo(store.Database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			telemetry.Warn("bootstrap.mongo_indexes_failed", map[string]any{"error": err})
		}
		a.Mongo = store
		return repo, nil
	default:
		return resumes.NewMemoryRepo(), nil
	}
}

// memoryFallback keeps development usable without the configured store.
func (a *App) memoryFallback(store string, err error) (resumes.Repo, error) {
	if !isDevLike(a.Config.Env) {
		return nil, fmt.Errorf("connect %s: %w", store, err)
	}
	telemetry.Warn("bootstrap.store_unavailable", map[string]any{
		"store": store,
		"error": err,
		"using": storeMemory,
	})
	a.Config.ResumeStore = storeMemory
	return resumes.NewMemoryRepo(), nil
}

func buildCache(ctx context.Context, cfg config.Config) cache.Cache {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return cache.Noop{}
	}
	prefix := "resume-maker:sections:" + cfg.OllamaModel + ":"
	c, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL, prefix)
	if err != nil {
		telemetry.Warn("bootstrap.cache_unavailable", map[string]any{"error": err})
		return cache.Noop{}
	}
	return c
}

func (a *App) buildHealth() *health.Service {
	svc := health.NewService(a.Config.Version, a.Config.Env)
	svc.Ollama = a.Generator.CheckHealth
	if a.Config.ResumeStore != storeMemory {
		svc.Database = a.ResumesRepo.Ping
	}
	if a.Cache.Enabled() {
		svc.Cache = a.Cache.Ping
	}
	return svc
}

func withDefaults(cfg config.Config) config.Config {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.APIPrefix) == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = "1.0.0"
	}
	if strings.TrimSpace(cfg.ResumeStore) == "" {
		cfg.ResumeStore = storeMemory
	}
	if strings.TrimSpace(cfg.OllamaModel) == "" {
		cfg.OllamaModel = "llama2"
	}
	return cfg
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "test":
		return true
	default:
		return false
	}
}
