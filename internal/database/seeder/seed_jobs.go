package seeder

import (
	"context"
	"fmt"

	"resume-screener/internal/database"

	"github.com/google/uuid"
)

// JobsSeeder inserts sample postings for OwnerEmail. Titles already present
// for that owner are skipped so the seeder can run repeatedly.
type JobsSeeder struct {
	OwnerEmail string
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	var ownerID uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1 AND role = 'hr'`, s.OwnerEmail).Scan(&ownerID); err != nil {
		return fmt.Errorf("find owner %s: %w", s.OwnerEmail, err)
	}

	items := []struct {
		Title          string
		Description    string
		Requirements   string
		Skills         []string
		MinExperience  int
		EducationLevel string
		Threshold      int
	}{
		{
			Title:          "Backend Engineer (Go)",
			Description:    "Build and maintain Go services, REST APIs, and PostgreSQL-backed systems.",
			Requirements:   "3+ years of Go in production. Solid SQL and PostgreSQL. Familiar with Redis and Docker.",
			Skills:         []string{"Go", "PostgreSQL", "Redis", "Docker"},
			MinExperience:  3,
			EducationLevel: "bachelor",
			Threshold:      70,
		},
		{
			Title:          "Frontend Engineer",
			Description:    "Develop the recruiter dashboard with React and TypeScript.",
			Requirements:   "2+ years of React. TypeScript. Experience with REST and WebSocket clients.",
			Skills:         []string{"React", "TypeScript", "WebSocket"},
			MinExperience:  2,
			EducationLevel: "bachelor",
			Threshold:      60,
		},
		{
			Title:          "Data Analyst",
			Description:    "Own hiring funnel reporting and build dashboards for talent acquisition.",
			Requirements:   "SQL, spreadsheet modelling and one BI tool.",
			Skills:         []string{"SQL", "Excel", "Metabase"},
			MinExperience:  1,
			EducationLevel: "associate",
			Threshold:      55,
		},
	}

	return database.InTx(ctx, db, func(q database.Querier) error {
		for _, it := range items {
			var exists bool
			if err := q.QueryRow(
				ctx,
				`SELECT EXISTS (SELECT 1 FROM jobs WHERE user_id = $1 AND title = $2)`,
				ownerID,
				it.Title,
			).Scan(&exists); err != nil {
				return err
			}
			if exists {
				continue
			}

			if _, err := q.Exec(
				ctx,
				`INSERT INTO jobs (id, user_id, title, description, requirements, required_skills, min_experience_years, education_level, min_score_threshold)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				uuid.New(),
				ownerID,
				it.Title,
				it.Description,
				it.Requirements,
				it.Skills,
				it.MinExperience,
				it.EducationLevel,
				it.Threshold,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
