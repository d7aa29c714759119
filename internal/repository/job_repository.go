package repository

import (
	"context"
	"errors"
	"strings"

	"resume-screener/internal/database"
	"resume-screener/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	Create(ctx context.Context, j *job.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]job.Job, error)
	ListOpen(ctx context.Context, search string, limit, offset int) ([]job.Job, error)
	Update(ctx context.Context, j *job.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, user_id, title, description, requirements, required_skills,
	min_experience_years, education_level, min_score_threshold, created_at, updated_at`

func (r *PostgresJobRepository) Create(ctx context.Context, j *job.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, user_id, title, description, requirements, required_skills,
			min_experience_years, education_level, min_score_threshold)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		j.ID, j.UserID, j.Title, j.Description, j.Requirements, j.RequiredSkills,
		j.MinExperienceYears, educationArg(j.EducationLevel), j.MinScoreThreshold,
	)
	return row.Scan(&j.CreatedAt, &j.UpdatedAt)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *PostgresJobRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC`, owner,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// ListOpen lists every posting, newest first, optionally filtered by a
// case-insensitive match on title or description.
func (r *PostgresJobRepository) ListOpen(ctx context.Context, search string, limit, offset int) ([]job.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	pattern := ""
	if s := strings.TrimSpace(search); s != "" {
		pattern = "%" + escapeLike(s) + "%"
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE $1 = '' OR title ILIKE $1 OR description ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) Update(ctx context.Context, j *job.Job) error {
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	row := r.db.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $2, description = $3, requirements = $4, required_skills = $5,
			min_experience_years = $6, education_level = $7, min_score_threshold = $8,
			updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		j.ID, j.Title, j.Description, j.Requirements, j.RequiredSkills,
		j.MinExperienceYears, educationArg(j.EducationLevel), j.MinScoreThreshold,
	)
	if err := row.Scan(&j.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJobNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func educationArg(e *job.EducationLevel) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var education *string
	if err := row.Scan(
		&j.ID, &j.UserID, &j.Title, &j.Description, &j.Requirements, &j.RequiredSkills,
		&j.MinExperienceYears, &education, &j.MinScoreThreshold, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return job.Job{}, err
	}
	if education != nil {
		lvl := job.EducationLevel(*education)
		j.EducationLevel = &lvl
	}
	return j, nil
}

func collectJobs(rows database.Rows) ([]job.Job, error) {
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
