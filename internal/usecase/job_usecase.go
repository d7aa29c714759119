package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-screener/internal/domain/job"
	"resume-screener/internal/logger"
	"resume-screener/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobInput struct {
	Title              string
	Description        string
	Requirements       *string
	RequiredSkills     []string
	MinExperienceYears *int
	EducationLevel     *string
	MinScoreThreshold  *int
}

type OpenJobsParams struct {
	Search string
	Limit  int
	Offset int
}

type JobUsecase interface {
	Create(ctx context.Context, owner uuid.UUID, in JobInput) (job.Job, error)
	ListMine(ctx context.Context, owner uuid.UUID) ([]job.Job, error)
	Get(ctx context.Context, owner, jobID uuid.UUID) (job.Job, error)
	Update(ctx context.Context, owner, jobID uuid.UUID, in JobInput) (job.Job, error)
	Delete(ctx context.Context, owner, jobID uuid.UUID) error
	ListOpen(ctx context.Context, params OpenJobsParams) ([]job.Job, error)
	GetOpen(ctx context.Context, jobID uuid.UUID) (job.Job, error)
}

type Jobs struct {
	jobs   repository.JobRepository
	cache  Cache
	logger *zap.Logger
}

func NewJobUsecase(jobs repository.JobRepository, c Cache, log *zap.Logger) *Jobs {
	return &Jobs{jobs: jobs, cache: cacheOrNop(c), logger: logger.OrNop(log)}
}

func (u *Jobs) Create(ctx context.Context, owner uuid.UUID, in JobInput) (job.Job, error) {
	j := job.Job{ID: uuid.New(), UserID: owner}
	if err := applyJobInput(&j, in); err != nil {
		return job.Job{}, err
	}

	if err := u.jobs.Create(ctx, &j); err != nil {
		u.logger.Error("create job failed", zap.Error(err))
		return job.Job{}, ErrInternal
	}
	return j, nil
}

func (u *Jobs) ListMine(ctx context.Context, owner uuid.UUID) ([]job.Job, error) {
	jobs, err := u.jobs.ListByOwner(ctx, owner)
	if err != nil {
		u.logger.Error("list jobs failed", zap.Error(err))
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *Jobs) Get(ctx context.Context, owner, jobID uuid.UUID) (job.Job, error) {
	j, err := u.owned(ctx, owner, jobID)
	if err != nil {
		return job.Job{}, err
	}
	return *j, nil
}

func (u *Jobs) Update(ctx context.Context, owner, jobID uuid.UUID, in JobInput) (job.Job, error) {
	j, err := u.owned(ctx, owner, jobID)
	if err != nil {
		return job.Job{}, err
	}
	if err := applyJobInput(j, in); err != nil {
		return job.Job{}, err
	}

	if err := u.jobs.Update(ctx, j); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		u.logger.Error("update job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return job.Job{}, ErrInternal
	}
	return *j, nil
}

// Delete removes the job; its candidates go with it.
func (u *Jobs) Delete(ctx context.Context, owner, jobID uuid.UUID) error {
	if _, err := u.owned(ctx, owner, jobID); err != nil {
		return err
	}
	if err := u.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrJobNotFound
		}
		u.logger.Error("delete job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return ErrInternal
	}
	invalidateCandidates(ctx, u.cache, u.logger, jobID)
	return nil
}

func (u *Jobs) ListOpen(ctx context.Context, params OpenJobsParams) ([]job.Job, error) {
	if params.Limit < 0 || params.Limit > 100 || params.Offset < 0 {
		return nil, ErrInvalidInput
	}
	jobs, err := u.jobs.ListOpen(ctx, params.Search, params.Limit, params.Offset)
	if err != nil {
		u.logger.Error("list open jobs failed", zap.Error(err))
		return nil, ErrInternal
	}
	return jobs, nil
}

func (u *Jobs) GetOpen(ctx context.Context, jobID uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		u.logger.Error("get job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return job.Job{}, ErrInternal
	}
	return *j, nil
}

func (u *Jobs) owned(ctx context.Context, owner, jobID uuid.UUID) (*job.Job, error) {
	j, err := ownedJob(ctx, u.jobs, owner, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		u.logger.Error("load job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return j, nil
}

func applyJobInput(j *job.Job, in JobInput) error {
	j.Title = strings.TrimSpace(in.Title)
	j.Description = strings.TrimSpace(in.Description)
	j.Requirements = trimmedOrNil(in.Requirements)
	j.MinExperienceYears = in.MinExperienceYears
	j.MinScoreThreshold = in.MinScoreThreshold

	skills := make([]string, 0, len(in.RequiredSkills))
	for _, s := range in.RequiredSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	j.RequiredSkills = skills

	j.EducationLevel = nil
	if lvl := trimmedOrNil(in.EducationLevel); lvl != nil {
		e := job.EducationLevel(strings.ToLower(*lvl))
		j.EducationLevel = &e
	}

	if err := j.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
