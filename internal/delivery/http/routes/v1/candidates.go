package v1

import (
	"resume-screener/internal/delivery/http/handler"
	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

func RegisterCandidates(r fiber.Router, candidates *handler.CandidatesHandler) {
	if r == nil || candidates == nil {
		return
	}

	hr := middleware.RequireRole(string(user.RoleHR))

	r.Get("/:id", hr(candidates.Get))
	r.Post("/:id/decision", hr(candidates.Decide))
	r.Delete("/:id", hr(candidates.Delete))
	r.Get("/:id/resume", hr(candidates.Resume))
}
