package v1

import (
	"resume-screener/internal/delivery/http/handler"
	"resume-screener/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything mounted under /api/v1.
type Handlers struct {
	AuthMiddleware *middleware.AuthMiddleware

	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Analyze      *handler.AnalyzeHandler
	Jobs         *handler.JobsHandler
	Candidates   *handler.CandidatesHandler
	Screening    *handler.ScreeningHandler
	Applications *handler.ApplicationHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	// The analyze endpoint authenticates on its own so that it can answer in
	// its {"error": ...} shape.
	if h.Analyze != nil {
		h.Analyze.RegisterRoutes(r)
	}

	if h.AuthMiddleware == nil {
		return
	}
	protected := r.Group("", h.AuthMiddleware.Middleware())

	RegisterUsers(protected.Group("/users"), h.Users)
	RegisterJobs(protected.Group("/jobs"), h.Jobs, h.Candidates, h.Screening, h.Applications)
	RegisterCandidates(protected.Group("/candidates"), h.Candidates)
}
