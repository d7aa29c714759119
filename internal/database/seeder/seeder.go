package seeder

import (
	"context"

	"resume-screener/internal/database"
)

// Seeder writes one group of demo rows. Run must be safe to repeat against a
// database it already seeded.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
