package routes

import (
	"resume-screener/internal/delivery/http/handler"
	v1 "resume-screener/internal/delivery/http/routes/v1"
	"resume-screener/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Handlers
	ws     *ws.Handler
}

func NewRegistry(health *handler.HealthHandler, api v1.Handlers, wsHandler *ws.Handler) *Registry {
	return &Registry{health: health, v1: api, ws: wsHandler}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWebSocket(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerWebSocket(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/screenings", r.ws.HandleScreeningsWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
