package app

import (
	"context"
	"fmt"
	"strings"

	"resume-screener/internal/config"
	"resume-screener/internal/delivery/http/handler"
	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/delivery/http/routes"
	v1 "resume-screener/internal/delivery/http/routes/v1"
	"resume-screener/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"go.uber.org/zap"
)

// Headers the browser client sends with API calls.
var corsAllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: cfg.App.BodyLimitMB << 20,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and the HTTP app. The returned cleanup closes
// every connection the container opened.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(cfg, c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: corsAllowHeaders,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions},
	}))
	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	api := v1.Handlers{
		AuthMiddleware: middleware.NewAuthMiddleware(c.JWT),
		Auth:           handler.NewAuthHandler(c.Auth),
		Users:          handler.NewUserHandler(c.User),
		Analyze:        handler.NewAnalyzeHandler(c.Gateway, c.Logger.Named("analyze")),
		Jobs:           handler.NewJobsHandler(c.Jobs),
		Candidates:     handler.NewCandidatesHandler(c.CandidateUC),
		Screening:      handler.NewScreeningHandler(c.Screening),
		Applications:   handler.NewApplicationHandler(c.Applications),
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		api,
		ws.NewHandler(c.Hub, c.JWT, c.Logger.Named("ws")),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
