package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/job"
	"resume-screener/internal/domain/screening"
	"resume-screener/internal/infrastructure/cache"
	"resume-screener/internal/logger"
	"resume-screener/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CandidateListing is one job's candidates after filtering, with stats over
// the unfiltered set.
type CandidateListing struct {
	Job               job.Job
	Candidates        []candidate.Candidate
	Stats             screening.Stats
	ActiveFilterCount int
}

type ResumeFile struct {
	Name string
	Body io.ReadCloser
}

type CandidateUsecase interface {
	ListForJob(ctx context.Context, owner, jobID uuid.UUID, spec screening.FilterSpec) (CandidateListing, error)
	Get(ctx context.Context, actor, candidateID uuid.UUID) (candidate.Candidate, error)
	Decide(ctx context.Context, actor, candidateID uuid.UUID, d candidate.Decision) (candidate.Candidate, error)
	Delete(ctx context.Context, actor, candidateID uuid.UUID) error
	Resume(ctx context.Context, actor, candidateID uuid.UUID) (ResumeFile, error)
}

type resumeOpener interface {
	Open(key string) (io.ReadCloser, error)
}

type Candidates struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	files      resumeOpener
	cache      Cache
	logger     *zap.Logger
	now        func() time.Time
}

func NewCandidateUsecase(jobs repository.JobRepository, candidates repository.CandidateRepository, files resumeOpener, c Cache, log *zap.Logger) *Candidates {
	return &Candidates{
		jobs:       jobs,
		candidates: candidates,
		files:      files,
		cache:      cacheOrNop(c),
		logger:     logger.OrNop(log),
		now:        time.Now,
	}
}

func (u *Candidates) ListForJob(ctx context.Context, owner, jobID uuid.UUID, spec screening.FilterSpec) (CandidateListing, error) {
	j, err := u.ownedJob(ctx, owner, jobID)
	if err != nil {
		return CandidateListing{}, err
	}

	all, err := u.load(ctx, jobID)
	if err != nil {
		return CandidateListing{}, err
	}

	return CandidateListing{
		Job:               *j,
		Candidates:        screening.Filter(all, spec),
		Stats:             screening.StatsForJob(all, *j),
		ActiveFilterCount: screening.ActiveFilterCount(spec),
	}, nil
}

// load reads the job's candidates from the cache, falling back to the
// repository and repopulating the cache.
func (u *Candidates) load(ctx context.Context, jobID uuid.UUID) ([]candidate.Candidate, error) {
	key := cache.CandidatesKey(jobID)

	var cached []candidate.Candidate
	hit, err := u.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		u.logger.Warn("candidate cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	genKey := cache.CandidatesGenKey(jobID)
	gen, genErr := u.cache.IncrBy(ctx, genKey, 0)

	all, err := u.candidates.ListByJob(ctx, jobID)
	if err != nil {
		u.logger.Error("list candidates failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return nil, ErrInternal
	}

	if genErr != nil {
		return all, nil
	}
	if err := u.cache.SetJSON(ctx, key, all, 0); err != nil {
		u.logger.Warn("candidate cache write failed", zap.String("key", key), zap.Error(err))
		return all, nil
	}
	// A write committed while the rows were being read; drop what was stored
	// rather than serve it until the TTL runs out.
	if now, err := u.cache.IncrBy(ctx, genKey, 0); err != nil || now != gen {
		if err := u.cache.Delete(ctx, key); err != nil {
			u.logger.Warn("candidate cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
	return all, nil
}

func (u *Candidates) Get(ctx context.Context, actor, candidateID uuid.UUID) (candidate.Candidate, error) {
	c, err := u.ownedCandidate(ctx, actor, candidateID)
	if err != nil {
		return candidate.Candidate{}, err
	}
	return *c, nil
}

func (u *Candidates) Decide(ctx context.Context, actor, candidateID uuid.UUID, d candidate.Decision) (candidate.Candidate, error) {
	c, err := u.ownedCandidate(ctx, actor, candidateID)
	if err != nil {
		return candidate.Candidate{}, err
	}

	if err := c.Decide(d, actor, u.now()); err != nil {
		return candidate.Candidate{}, err
	}

	if err := u.candidates.UpdateShortlist(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return candidate.Candidate{}, ErrCandidateNotFound
		}
		u.logger.Error("update shortlist failed", zap.String("candidate_id", candidateID.String()), zap.Error(err))
		return candidate.Candidate{}, ErrInternal
	}

	u.invalidate(ctx, c.JobID)
	return *c, nil
}

func (u *Candidates) Delete(ctx context.Context, actor, candidateID uuid.UUID) error {
	c, err := u.ownedCandidate(ctx, actor, candidateID)
	if err != nil {
		return err
	}

	if err := u.candidates.Delete(ctx, candidateID); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return ErrCandidateNotFound
		}
		u.logger.Error("delete candidate failed", zap.String("candidate_id", candidateID.String()), zap.Error(err))
		return ErrInternal
	}

	u.invalidate(ctx, c.JobID)
	return nil
}

func (u *Candidates) Resume(ctx context.Context, actor, candidateID uuid.UUID) (ResumeFile, error) {
	c, err := u.ownedCandidate(ctx, actor, candidateID)
	if err != nil {
		return ResumeFile{}, err
	}
	if c.ResumeFilePath == nil || *c.ResumeFilePath == "" || u.files == nil {
		return ResumeFile{}, fmt.Errorf("%w: no resume file stored", ErrCandidateNotFound)
	}

	body, err := u.files.Open(*c.ResumeFilePath)
	if err != nil {
		u.logger.Warn("open resume failed", zap.String("path", *c.ResumeFilePath), zap.Error(err))
		return ResumeFile{}, fmt.Errorf("%w: resume file missing", ErrCandidateNotFound)
	}
	return ResumeFile{Name: path.Base(*c.ResumeFilePath), Body: body}, nil
}

func (u *Candidates) ownedJob(ctx context.Context, owner, jobID uuid.UUID) (*job.Job, error) {
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

// ownedCandidate loads a candidate whose job belongs to actor.
func (u *Candidates) ownedCandidate(ctx context.Context, actor, candidateID uuid.UUID) (*candidate.Candidate, error) {
	c, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return nil, ErrCandidateNotFound
		}
		u.logger.Error("load candidate failed", zap.String("candidate_id", candidateID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	if _, err := u.ownedJob(ctx, actor, c.JobID); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return c, nil
}

func (u *Candidates) invalidate(ctx context.Context, jobID uuid.UUID) {
	invalidateCandidates(ctx, u.cache, u.logger, jobID)
}
