package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/job"
	"resume-screener/internal/gateway"
	"resume-screener/internal/infrastructure/cache"
	"resume-screener/internal/logger"
	"resume-screener/internal/pkg/workerpool"
	"resume-screener/internal/repository"
	"resume-screener/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemUploading ItemStatus = "uploading"
	ItemAnalyzing ItemStatus = "analyzing"
	ItemComplete  ItemStatus = "complete"
	ItemError     ItemStatus = "error"
)

func (s ItemStatus) Terminal() bool {
	return s == ItemComplete || s == ItemError
}

type BatchOutcome string

const (
	OutcomeComplete BatchOutcome = "complete"
	OutcomePartial  BatchOutcome = "partial"
	OutcomeFailed   BatchOutcome = "failed"
)

const (
	MimeTextPlain   = "text/plain"
	batchLockTTL    = 30 * time.Minute
	cancelledReason = "Screening cancelled"
)

// Upload is one resume file received for screening. Err marks a file that
// could not be received; it is reported as a failed item without being
// stored or analyzed.
type Upload struct {
	FileName string
	MIMEType string
	Data     []byte
	Err      error
}

type ItemReport struct {
	FileName    string     `json:"file_name"`
	Status      ItemStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty"`
	MatchScore  *int       `json:"match_score,omitempty"`
}

type BatchReport struct {
	JobID        uuid.UUID    `json:"job_id"`
	Items        []ItemReport `json:"items"`
	SuccessCount int          `json:"success_count"`
	TotalFiles   int          `json:"total_files"`
	Outcome      BatchOutcome `json:"outcome"`
}

type Analyzer interface {
	AnalyzeFor(ctx context.Context, id gateway.Identity, req gateway.Request) (gateway.AnalysisResult, error)
}

type FileStore interface {
	Save(ctx context.Context, owner, jobID uuid.UUID, fileName string, data []byte) (string, error)
}

type ProgressReporter interface {
	ScreeningProgress(userID uuid.UUID, evt ws.ProgressEvent)
}

type ScreeningUsecase interface {
	Run(ctx context.Context, actor gateway.Identity, jobID uuid.UUID, uploads []Upload) (BatchReport, error)
}

type ScreeningOptions struct {
	Concurrency int
	RateLimit   int
}

type Screening struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	analyzer   Analyzer
	files      FileStore
	progress   ProgressReporter
	cache      Cache
	logger     *zap.Logger
	opts       ScreeningOptions
}

func NewScreeningUsecase(
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	analyzer Analyzer,
	files FileStore,
	progress ProgressReporter,
	c Cache,
	log *zap.Logger,
	opts ScreeningOptions,
) *Screening {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Screening{
		jobs:       jobs,
		candidates: candidates,
		analyzer:   analyzer,
		files:      files,
		progress:   progress,
		cache:      cacheOrNop(c),
		logger:     logger.OrNop(log),
		opts:       opts,
	}
}

type itemUpdate struct {
	index       int
	status      ItemStatus
	err         string
	candidateID *uuid.UUID
	matchScore  *int
}

// Run screens every upload against the job. Items fail independently; the
// returned error is non-nil only when the batch could not start.
func (u *Screening) Run(ctx context.Context, actor gateway.Identity, jobID uuid.UUID, uploads []Upload) (BatchReport, error) {
	if len(uploads) == 0 {
		return BatchReport{}, ErrInvalidInput
	}

	j, err := ownedJob(ctx, u.jobs, actor.UserID, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrForbidden) {
			return BatchReport{}, err
		}
		u.logger.Error("load job failed", zap.String("job_id", jobID.String()), zap.Error(err))
		return BatchReport{}, ErrInternal
	}

	lockKey := cache.ScreeningLockKey(jobID)
	claimed, err := u.cache.SetIfNotExists(ctx, lockKey, actor.UserID.String(), batchLockTTL)
	if err != nil {
		u.logger.Warn("screening lock unavailable, continuing without it", zap.Error(err))
		claimed = true
	}
	if !claimed {
		return BatchReport{}, ErrBatchInProgress
	}
	defer func() {
		if err := u.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			u.logger.Warn("screening lock release failed", zap.Error(err))
		}
	}()

	report := BatchReport{
		JobID:      jobID,
		Items:      make([]ItemReport, len(uploads)),
		TotalFiles: len(uploads),
	}
	for i, up := range uploads {
		report.Items[i] = ItemReport{FileName: up.FileName, Status: ItemPending}
	}

	started := time.Now()
	u.logger.Info("screening batch started",
		zap.String("job_id", jobID.String()),
		zap.Int("files", len(uploads)),
		zap.Int("concurrency", u.opts.Concurrency),
	)

	// Each task sends at most two intermediate updates.
	updates := make(chan itemUpdate, 2*len(uploads))
	pool := workerpool.New[itemUpdate](u.opts.Concurrency, len(uploads))
	pool.SetRateLimit(u.opts.RateLimit)
	results := pool.Run(ctx)

	for i := range uploads {
		i, up := i, uploads[i]
		pool.Submit(func(ctx context.Context) itemUpdate {
			return u.process(ctx, actor, j, i, up, updates)
		})
	}
	pool.Close()

	processed := 0
	apply := func(upd itemUpdate) {
		item := &report.Items[upd.index]
		if item.Status.Terminal() {
			return
		}
		item.Status = upd.status
		item.Error = upd.err
		item.CandidateID = upd.candidateID
		item.MatchScore = upd.matchScore
		if upd.status.Terminal() {
			processed++
			if upd.status == ItemComplete {
				report.SuccessCount++
			}
		}
		u.publish(actor.UserID, jobID, *item, processed, report)
	}

	for results != nil {
		select {
		case upd := <-updates:
			apply(upd)
		case upd, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			apply(upd)
		}
	}

	for i := range report.Items {
		if !report.Items[i].Status.Terminal() {
			apply(itemUpdate{index: i, status: ItemError, err: cancelledReason})
		}
	}

	report.Outcome = outcomeOf(report.SuccessCount, report.TotalFiles)
	if report.SuccessCount > 0 {
		invalidateCandidates(context.WithoutCancel(ctx), u.cache, u.logger, jobID)
	}

	u.logger.Info("screening batch finished",
		zap.String("job_id", jobID.String()),
		zap.Int("success", report.SuccessCount),
		zap.Int("total", report.TotalFiles),
		zap.String("outcome", string(report.Outcome)),
		zap.Duration("took", time.Since(started)),
	)
	return report, nil
}

func (u *Screening) publish(userID, jobID uuid.UUID, item ItemReport, processed int, report BatchReport) {
	if u.progress == nil {
		return
	}
	u.progress.ScreeningProgress(userID, ws.ProgressEvent{
		JobID:        jobID,
		FileName:     item.FileName,
		Status:       string(item.Status),
		Processed:    processed,
		Total:        report.TotalFiles,
		SuccessCount: report.SuccessCount,
		Error:        item.Error,
		CandidateID:  item.CandidateID,
	})
}

func (u *Screening) process(ctx context.Context, actor gateway.Identity, j *job.Job, index int, up Upload, updates chan<- itemUpdate) itemUpdate {
	log := u.logger.With(zap.String("job_id", j.ID.String()), zap.String("file_name", up.FileName))
	fail := func(msg string) itemUpdate {
		return itemUpdate{index: index, status: ItemError, err: msg}
	}

	if up.Err != nil {
		log.Warn("resume rejected before screening", zap.Error(up.Err))
		return fail(uploadFailure(up.Err))
	}
	if ctx.Err() != nil {
		return fail(cancelledReason)
	}
	updates <- itemUpdate{index: index, status: ItemUploading}

	var filePath *string
	if u.files != nil {
		key, err := u.files.Save(ctx, actor.UserID, j.ID, up.FileName, up.Data)
		if err != nil {
			log.Warn("resume upload failed, continuing with analysis", zap.Error(err))
		} else {
			filePath = &key
		}
	}

	updates <- itemUpdate{index: index, status: ItemAnalyzing}

	req := gateway.Request{
		FileName:        up.FileName,
		MIMEType:        up.MIMEType,
		JobDescription:  j.Description,
		JobRequirements: j.RequirementsText(),
	}
	var resumeText *string
	if isPlainText(up) {
		text := candidate.TruncateResumeText(string(up.Data))
		req.ResumeText = string(up.Data)
		resumeText = &text
	} else {
		req.FileBase64 = base64.StdEncoding.EncodeToString(up.Data)
	}

	result, err := u.analyzer.AnalyzeFor(ctx, actor, req)
	if err != nil {
		log.Warn("resume analysis failed", zap.String("kind", string(gateway.KindOf(err))), zap.Error(err))
		return fail(gateway.Message(err))
	}

	c := candidateFromAnalysis(j.ID, up.FileName, result)
	c.ResumeText = resumeText
	c.ResumeFilePath = filePath

	if err := u.candidates.Create(ctx, &c); err != nil {
		perr := gateway.Persistence(err)
		log.Error("save candidate failed", zap.Error(perr), zap.ByteString("stack", perr.StackTrace()))
		return fail(perr.Message)
	}

	id := c.ID
	score := result.MatchScore
	return itemUpdate{index: index, status: ItemComplete, candidateID: &id, matchScore: &score}
}

func candidateFromAnalysis(jobID uuid.UUID, fileName string, r gateway.AnalysisResult) candidate.Candidate {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = fileStem(fileName)
	}
	score := r.MatchScore
	return candidate.Candidate{
		ID:              uuid.New(),
		JobID:           jobID,
		Name:            name,
		Email:           nonEmpty(r.Email),
		Phone:           nonEmpty(r.Phone),
		Skills:          r.Skills,
		Education:       stringOrNil(r.Education),
		Experience:      stringOrNil(r.Experience),
		MatchScore:      &score,
		KeyMatches:      r.KeyMatches,
		MissingSkills:   r.MissingSkills,
		AnalysisSummary: stringOrNil(r.Summary),
		Shortlist:       candidate.Undecided,
		Status:          candidate.StatusAnalyzed,
	}
}

func outcomeOf(success, total int) BatchOutcome {
	switch {
	case success == 0:
		return OutcomeFailed
	case success < total:
		return OutcomePartial
	default:
		return OutcomeComplete
	}
}

func uploadFailure(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "File exceeds the size limit"
	case errors.Is(err, ErrUnsupportedFile):
		return "Unsupported file type"
	default:
		return "Could not read file"
	}
}

func isPlainText(up Upload) bool {
	mime := strings.ToLower(strings.TrimSpace(up.MIMEType))
	if strings.HasPrefix(mime, MimeTextPlain) {
		return true
	}
	return mime == "" && strings.EqualFold(filepath.Ext(up.FileName), ".txt") && utf8.Valid(up.Data)
}

// fileStem drops the last extension: "jane.doe.pdf" becomes "jane.doe".
func fileStem(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func stringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return stringOrNil(*s)
}
