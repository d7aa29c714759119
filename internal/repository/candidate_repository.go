package repository

import (
	"context"
	"errors"

	"resume-screener/internal/database"
	"resume-screener/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
)

type CandidateRepository interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]candidate.Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*candidate.Candidate, error)
	Create(ctx context.Context, c *candidate.Candidate) error
	UpdateShortlist(ctx context.Context, c *candidate.Candidate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, job_id, name, email, phone, skills, education, experience,
	resume_text, match_score, key_matches, missing_skills, analysis_summary,
	is_shortlisted, shortlisted_at, shortlisted_by, resume_file_path, status,
	applicant_id, created_at`

// ListByJob returns the job's candidates by score descending, unscored last.
func (r *PostgresCandidateRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]candidate.Candidate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates
		 WHERE job_id = $1
		 ORDER BY match_score DESC NULLS LAST, created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*candidate.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO candidates (id, job_id, name, email, phone, skills, education, experience,
			resume_text, match_score, key_matches, missing_skills, analysis_summary,
			is_shortlisted, shortlisted_at, shortlisted_by, resume_file_path, status, applicant_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING created_at`,
		c.ID, c.JobID, c.Name, c.Email, c.Phone, nonNil(c.Skills), c.Education, c.Experience,
		c.ResumeText, c.MatchScore, nonNil(c.KeyMatches), nonNil(c.MissingSkills), c.AnalysisSummary,
		c.Shortlist.Bool(), c.ShortlistedAt, c.ShortlistedBy, c.ResumeFilePath, c.Status, c.ApplicantID,
	)
	return row.Scan(&c.CreatedAt)
}

func (r *PostgresCandidateRepository) UpdateShortlist(ctx context.Context, c *candidate.Candidate) error {
	n, err := r.db.Exec(ctx,
		`UPDATE candidates SET is_shortlisted = $2, shortlisted_at = $3, shortlisted_by = $4 WHERE id = $1`,
		c.ID, c.Shortlist.Bool(), c.ShortlistedAt, c.ShortlistedBy,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *PostgresCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func scanCandidate(row database.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var shortlisted *bool
	if err := row.Scan(
		&c.ID, &c.JobID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.Education, &c.Experience,
		&c.ResumeText, &c.MatchScore, &c.KeyMatches, &c.MissingSkills, &c.AnalysisSummary,
		&shortlisted, &c.ShortlistedAt, &c.ShortlistedBy, &c.ResumeFilePath, &c.Status,
		&c.ApplicantID, &c.CreatedAt,
	); err != nil {
		return candidate.Candidate{}, err
	}
	c.Shortlist = candidate.ShortlistFromBool(shortlisted)
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
