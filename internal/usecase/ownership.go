package usecase

import (
	"context"
	"errors"

	"resume-screener/internal/domain/job"
	"resume-screener/internal/repository"

	"github.com/google/uuid"
)

type jobGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// ownedJob loads a job and checks that owner posted it.
func ownedJob(ctx context.Context, jobs jobGetter, owner, jobID uuid.UUID) (*job.Job, error) {
	j, err := jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if !j.OwnedBy(owner) {
		return nil, ErrForbidden
	}
	return j, nil
}
