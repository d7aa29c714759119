package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/gateway"
	"resume-screener/internal/infrastructure/cache"

	"github.com/google/uuid"
)

type screeningFixture struct {
	owner      gateway.Identity
	jobs       *mockJobRepo
	candidates *mockCandidateRepo
	analyzer   *mockAnalyzer
	files      *mockFileStore
	progress   *mockProgress
	cache      *mockCache
}

func newScreeningFixture() *screeningFixture {
	return &screeningFixture{
		owner:      gateway.Identity{UserID: uuid.New(), Role: "hr"},
		jobs:       newMockJobRepo(),
		candidates: newMockCandidateRepo(),
		analyzer:   &mockAnalyzer{results: map[string]gateway.AnalysisResult{}, errs: map[string]error{}},
		files:      newMockFileStore(),
		progress:   &mockProgress{},
		cache:      newMockCache(),
	}
}

func (f *screeningFixture) usecase(concurrency int) *Screening {
	return NewScreeningUsecase(f.jobs, f.candidates, f.analyzer, f.files, f.progress, f.cache, nil, ScreeningOptions{Concurrency: concurrency})
}

func pdf(name string) Upload {
	return Upload{FileName: name, MIMEType: "application/pdf", Data: []byte("%PDF-1.4 " + name)}
}

func TestScreening_AllSucceed(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	f.analyzer.results["ada.pdf"] = gateway.AnalysisResult{Name: "Ada", MatchScore: 91, Skills: []string{"Go"}}

	report, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{pdf("ada.pdf"), pdf("bob.pdf")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomeComplete || report.SuccessCount != 2 || report.TotalFiles != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, it := range report.Items {
		if it.Status != ItemComplete || it.CandidateID == nil || it.MatchScore == nil {
			t.Fatalf("unexpected item: %+v", it)
		}
	}

	stored := f.candidates.byJob(j.ID)
	if len(stored) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(stored))
	}
	top := stored[0]
	if top.Name != "Ada" || top.Score() != 91 || top.Status != candidate.StatusAnalyzed || top.Shortlist != candidate.Undecided {
		t.Fatalf("unexpected candidate: %+v", top)
	}
	if top.ResumeFilePath == nil {
		t.Fatal("expected stored file path")
	}

	req := f.analyzer.requests[0]
	if req.JobDescription != j.Description || req.JobRequirements != "Go, PostgreSQL" || req.FileBase64 == "" || req.JobID != "" {
		t.Fatalf("unexpected gateway request: %+v", req)
	}
	if !f.cache.wasDeleted(cache.CandidatesKey(j.ID)) {
		t.Fatal("expected candidate cache invalidated")
	}
}

func TestScreening_PartialFailureDoesNotAbort(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	f.analyzer.errs["broken.pdf"] = &gateway.Error{Kind: gateway.KindUpstreamRateLimited, Message: "Rate limit exceeded. Please try again later."}

	report, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf"), pdf("broken.pdf"), pdf("c.pdf")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomePartial || report.SuccessCount != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	broken := report.Items[1]
	if broken.Status != ItemError || broken.Error != "Rate limit exceeded. Please try again later." {
		t.Fatalf("unexpected failed item: %+v", broken)
	}
}

func TestScreening_AllFail(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	f.candidates.createErr = errors.New("insert failed")

	report, err := f.usecase(2).Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf"), pdf("b.pdf")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomeFailed || report.SuccessCount != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, it := range report.Items {
		if it.Error != "Failed to save candidate" {
			t.Fatalf("unexpected error text %q", it.Error)
		}
	}
	if f.cache.wasDeleted(cache.CandidatesKey(j.ID)) {
		t.Fatal("cache must not be invalidated when nothing was saved")
	}
}

func TestScreening_CountsAreExactUnderConcurrency(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j

	const n = 40
	uploads := make([]Upload, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("r%02d.pdf", i)
		if i%4 == 0 {
			f.analyzer.errs[name] = errors.New("boom")
		}
		uploads = append(uploads, pdf(name))
	}

	report, err := f.usecase(8).Run(context.Background(), f.owner, j.ID, uploads)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.SuccessCount != 30 || report.TotalFiles != n {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if got := len(f.candidates.byJob(j.ID)); got != 30 {
		t.Fatalf("expected 30 candidates, got %d", got)
	}

	for i, it := range report.Items {
		if it.FileName != uploads[i].FileName {
			t.Fatalf("item %d out of order: %q", i, it.FileName)
		}
	}

	last := f.progress.events[len(f.progress.events)-1]
	if last.Processed != n || last.Total != n || last.SuccessCount != 30 {
		t.Fatalf("unexpected final progress event: %+v", last)
	}
	prev := 0
	for _, evt := range f.progress.events {
		if evt.Processed < prev {
			t.Fatalf("processed went backwards: %d after %d", evt.Processed, prev)
		}
		prev = evt.Processed
	}
}

func TestScreening_StorageFailureIsNotFatal(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	f.files.err = errors.New("disk full")

	report, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomeComplete {
		t.Fatalf("unexpected report: %+v", report)
	}
	if c := f.candidates.byJob(j.ID)[0]; c.ResumeFilePath != nil {
		t.Fatalf("expected no file path, got %q", *c.ResumeFilePath)
	}
}

func TestScreening_PlainTextAndNameFallback(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	f.analyzer.results["jane.doe.txt"] = gateway.AnalysisResult{MatchScore: 70}

	up := Upload{FileName: "jane.doe.txt", MIMEType: "text/plain; charset=utf-8", Data: []byte("Jane Doe, Go developer")}
	if _, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{up}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	req := f.analyzer.requests[0]
	if req.ResumeText != "Jane Doe, Go developer" || req.FileBase64 != "" {
		t.Fatalf("expected text request, got %+v", req)
	}
	c := f.candidates.byJob(j.ID)[0]
	if c.Name != "jane.doe" {
		t.Fatalf("expected name from file stem, got %q", c.Name)
	}
	if c.ResumeText == nil || *c.ResumeText != "Jane Doe, Go developer" {
		t.Fatalf("expected resume text kept, got %v", c.ResumeText)
	}
}

func TestScreening_Ownership(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(uuid.New())
	f.jobs.jobs[j.ID] = j

	_, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.analyzer.requests) != 0 {
		t.Fatal("analyzer must not be called")
	}

	_, err = f.usecase(1).Run(context.Background(), f.owner, uuid.New(), []Upload{pdf("a.pdf")})
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestScreening_RejectsEmptyAndConcurrentBatches(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j

	if _, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	f.cache.locks[cache.ScreeningLockKey(j.ID)] = "someone"
	if _, err := f.usecase(1).Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf")}); !errors.Is(err, ErrBatchInProgress) {
		t.Fatalf("expected ErrBatchInProgress, got %v", err)
	}
}

func TestScreening_ReleasesLock(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j
	uc := f.usecase(1)

	for i := 0; i < 2; i++ {
		if _, err := uc.Run(context.Background(), f.owner, j.ID, []Upload{pdf("a.pdf")}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestScreening_CancelledBeforeStart(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.usecase(1).Run(ctx, f.owner, j.ID, []Upload{pdf("a.pdf"), pdf("b.pdf")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %+v", report)
	}
	for _, it := range report.Items {
		if it.Status != ItemError {
			t.Fatalf("expected every item terminal, got %+v", it)
		}
	}
}

func TestFileStem(t *testing.T) {
	cases := map[string]string{
		"ada.pdf":        "ada",
		"jane.doe.docx":  "jane.doe",
		"noext":          "noext",
		"dir/nested.pdf": "nested",
		" spaced .pdf ":  "spaced ",
	}
	for in, want := range cases {
		if got := fileStem(in); got != want {
			t.Fatalf("fileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScreening_RejectedUploadCountsAsFailedItem(t *testing.T) {
	f := newScreeningFixture()
	j := ownedTestJob(f.owner.UserID)
	f.jobs.jobs[j.ID] = j

	uploads := []Upload{
		pdf("ada.pdf"),
		{FileName: "huge.pdf", MIMEType: "application/pdf", Err: ErrFileTooLarge},
		pdf("bob.pdf"),
	}
	report, err := f.usecase(2).Run(context.Background(), f.owner, j.ID, uploads)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Outcome != OutcomePartial || report.SuccessCount != 2 || report.TotalFiles != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}

	huge := report.Items[1]
	if huge.FileName != "huge.pdf" || huge.Status != ItemError || huge.Error != "File exceeds the size limit" {
		t.Fatalf("unexpected item for oversized file: %+v", huge)
	}
	for _, req := range f.analyzer.requests {
		if req.FileName == "huge.pdf" {
			t.Fatal("oversized file must not reach the analyzer")
		}
	}
	if len(f.files.files) != 2 {
		t.Fatalf("expected 2 stored files, got %d", len(f.files.files))
	}
}

func TestUploadFailure(t *testing.T) {
	cases := map[error]string{
		ErrFileTooLarge:                "File exceeds the size limit",
		ErrUnsupportedFile:             "Unsupported file type",
		fmt.Errorf("read: %w", io.EOF): "Could not read file",
	}
	for err, want := range cases {
		if got := uploadFailure(err); got != want {
			t.Fatalf("uploadFailure(%v) = %q, want %q", err, got, want)
		}
	}
}
