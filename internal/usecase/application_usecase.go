package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/user"
	"resume-screener/internal/gateway"
	"resume-screener/internal/logger"
	"resume-screener/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxApplicationFileSize = 5 << 20

var applicationExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

type ApplicationInput struct {
	Name  string
	Email string
	Phone string
	File  Upload
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, applicant gateway.Identity, jobID uuid.UUID, in ApplicationInput) (candidate.Candidate, error)
}

type Applications struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	files      FileStore
	cache      Cache
	logger     *zap.Logger
}

func NewApplicationUsecase(jobs repository.JobRepository, candidates repository.CandidateRepository, files FileStore, c Cache, log *zap.Logger) *Applications {
	return &Applications{
		jobs:       jobs,
		candidates: candidates,
		files:      files,
		cache:      cacheOrNop(c),
		logger:     logger.OrNop(log),
	}
}

func (u *Applications) Apply(ctx context.Context, applicant gateway.Identity, jobID uuid.UUID, in ApplicationInput) (candidate.Candidate, error) {
	if user.Role(applicant.Role) != user.RoleJobSeeker {
		return candidate.Candidate{}, ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return candidate.Candidate{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return candidate.Candidate{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if err := checkApplicationFile(in.File); err != nil {
		return candidate.Candidate{}, err
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return candidate.Candidate{}, ErrJobNotFound
		}
		u.logger.Error("load job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return candidate.Candidate{}, ErrInternal
	}

	key, err := u.files.Save(ctx, applicant.UserID, j.ID, in.File.FileName, in.File.Data)
	if err != nil {
		u.logger.Error("store application resume failed", zap.String("job_id", j.ID.String()), zap.Error(err))
		return candidate.Candidate{}, ErrInternal
	}

	applicantID := applicant.UserID
	c := candidate.Candidate{
		ID:             uuid.New(),
		JobID:          j.ID,
		Name:           name,
		Email:          &email,
		Phone:          stringOrNil(in.Phone),
		ResumeFilePath: &key,
		Shortlist:      candidate.Undecided,
		Status:         candidate.StatusPending,
		ApplicantID:    &applicantID,
	}
	if isPlainText(in.File) {
		text := candidate.TruncateResumeText(string(in.File.Data))
		c.ResumeText = &text
	}

	if err := u.candidates.Create(ctx, &c); err != nil {
		u.logger.Error("save application failed", zap.String("job_id", j.ID.String()), zap.Error(err))
		return candidate.Candidate{}, ErrInternal
	}

	invalidateCandidates(ctx, u.cache, u.logger, j.ID)

	u.logger.Info("application received", zap.String("job_id", j.ID.String()), zap.String("candidate_id", c.ID.String()))
	return c, nil
}

func checkApplicationFile(f Upload) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}
	if len(f.Data) > MaxApplicationFileSize {
		return ErrFileTooLarge
	}
	if _, ok := applicationExtensions[strings.ToLower(filepath.Ext(f.FileName))]; !ok {
		return ErrUnsupportedFile
	}
	return nil
}
