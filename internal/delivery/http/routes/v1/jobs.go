package v1

import (
	"resume-screener/internal/delivery/http/handler"
	"resume-screener/internal/delivery/http/middleware"
	"resume-screener/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

// RegisterJobs mounts /jobs. Open listings come first so "/open" is not
// captured by the HR "/:id" routes.
func RegisterJobs(
	r fiber.Router,
	jobs *handler.JobsHandler,
	candidates *handler.CandidatesHandler,
	screening *handler.ScreeningHandler,
	applications *handler.ApplicationHandler,
) {
	if r == nil || jobs == nil {
		return
	}

	hr := middleware.RequireRole(string(user.RoleHR))
	anyone := middleware.RequireRole(string(user.RoleHR), string(user.RoleJobSeeker))

	r.Get("/open", anyone(jobs.ListOpen))
	r.Get("/open/:id", anyone(jobs.GetOpen))

	r.Post("/", hr(jobs.Create))
	r.Get("/", hr(jobs.ListMine))
	r.Get("/:id", hr(jobs.Get))
	r.Put("/:id", hr(jobs.Update))
	r.Delete("/:id", hr(jobs.Delete))

	if candidates != nil {
		r.Get("/:id/candidates", hr(candidates.ListForJob))
	}
	if screening != nil {
		r.Post("/:id/screenings", hr(screening.Screen))
	}
	if applications != nil {
		r.Post("/:id/applications", middleware.RequireRole(string(user.RoleJobSeeker))(applications.Apply))
	}
}
