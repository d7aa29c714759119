package app

import (
	"context"
	"fmt"
	"time"

	"resume-screener/internal/ai"
	"resume-screener/internal/ai/gemini"
	"resume-screener/internal/ai/openai"
	"resume-screener/internal/config"
	"resume-screener/internal/database"
	dbpostgres "resume-screener/internal/database/postgres"
	"resume-screener/internal/gateway"
	"resume-screener/internal/infrastructure/cache"
	"resume-screener/internal/infrastructure/storage"
	"resume-screener/internal/logger"
	"resume-screener/internal/pkg/jwt"
	"resume-screener/internal/repository"
	"resume-screener/internal/usecase"
	"resume-screener/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Cache *cache.Redis
	Files *storage.Local
	JWT   *jwt.HMACService
	Hub   *ws.Hub

	Users      *repository.PostgresUserRepository
	JobRepo    *repository.PostgresJobRepository
	Candidates *repository.PostgresCandidateRepository

	Gateway      *gateway.Gateway
	Auth         *usecase.Auth
	User         *usecase.User
	Jobs         *usecase.Jobs
	CandidateUC  *usecase.Candidates
	Screening    *usecase.Screening
	Applications *usecase.Applications

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(dialCtx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	files, err := storage.NewLocal(cfg.Storage.Dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	completer, err := NewCompleter(ctx, cfg.AI)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("ai provider configured", zap.String("provider", completer.Provider()), zap.String("model", completer.Model()))

	c := &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  cache.NewRedis(dialCtx, cfg.Redis, log),
		Files:  files,
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
		Hub: ws.NewHub(log),

		Users:      repository.NewPostgresUserRepository(db),
		JobRepo:    repository.NewPostgresJobRepository(db),
		Candidates: repository.NewPostgresCandidateRepository(db),
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.Gateway = gateway.New(c.JWT, c.JobRepo, completer, log.Named("gateway"), cfg.AI.MaxLogLength)
	c.Auth = usecase.NewAuthUsecase(c.Users, c.JWT)
	c.User = usecase.NewUserUsecase(c.Users)
	c.Jobs = usecase.NewJobUsecase(c.JobRepo, c.Cache, log)
	c.CandidateUC = usecase.NewCandidateUsecase(c.JobRepo, c.Candidates, c.Files, c.Cache, log)
	c.Screening = usecase.NewScreeningUsecase(
		c.JobRepo,
		c.Candidates,
		c.Gateway,
		c.Files,
		ws.NewNotifier(c.Hub),
		c.Cache,
		log.Named("screening"),
		usecase.ScreeningOptions{Concurrency: cfg.Screening.Concurrency, RateLimit: cfg.Screening.RateLimit},
	)
	c.Applications = usecase.NewApplicationUsecase(c.JobRepo, c.Candidates, c.Files, c.Cache, log)

	return c, nil
}

// NewCompleter builds the language model client named by cfg.Provider.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (ai.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.New(ctx, cfg.APIKey, cfg.Model)
	case config.ProviderOpenAI, "":
		return openai.New(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
