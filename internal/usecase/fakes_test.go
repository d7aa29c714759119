package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/job"
	"resume-screener/internal/gateway"
	"resume-screener/internal/repository"
	"resume-screener/internal/ws"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]job.Job
	err     error
	deleted []uuid.UUID
}

func newMockJobRepo(jobs ...job.Job) *mockJobRepo {
	m := &mockJobRepo{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockJobRepo) Create(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.jobs[j.ID] = *j
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return &j, nil
}

func (m *mockJobRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]job.Job, 0)
	for _, j := range m.jobs {
		if j.UserID == owner {
			out = append(out, j)
		}
	}
	return out, m.err
}

func (m *mockJobRepo) ListOpen(_ context.Context, _ string, _, _ int) ([]job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]job.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	return out, m.err
}

func (m *mockJobRepo) Update(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[j.ID]; !ok {
		return repository.ErrJobNotFound
	}
	m.jobs[j.ID] = *j
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(m.jobs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCandidateRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]candidate.Candidate
	createErr error
	lists     int
	// onList runs after ListByJob has read the rows, before it returns them.
	onList func()
}

func newMockCandidateRepo(cs ...candidate.Candidate) *mockCandidateRepo {
	m := &mockCandidateRepo{items: map[uuid.UUID]candidate.Candidate{}}
	for _, c := range cs {
		m.items[c.ID] = c
	}
	return m
}

func (m *mockCandidateRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]candidate.Candidate, error) {
	m.mu.Lock()
	m.lists++
	out := make([]candidate.Candidate, 0)
	for _, c := range m.items {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	hook := m.onList
	m.mu.Unlock()
	sort.Slice(out, func(i, k int) bool { return out[i].Score() > out[k].Score() })
	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *mockCandidateRepo) GetByID(_ context.Context, id uuid.UUID) (*candidate.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, repository.ErrCandidateNotFound
	}
	return &c, nil
}

func (m *mockCandidateRepo) Create(_ context.Context, c *candidate.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	m.items[c.ID] = *c
	return nil
}

func (m *mockCandidateRepo) UpdateShortlist(_ context.Context, c *candidate.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[c.ID]
	if !ok {
		return repository.ErrCandidateNotFound
	}
	cur.Shortlist, cur.ShortlistedAt, cur.ShortlistedBy = c.Shortlist, c.ShortlistedAt, c.ShortlistedBy
	m.items[c.ID] = cur
	return nil
}

func (m *mockCandidateRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrCandidateNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCandidateRepo) byJob(jobID uuid.UUID) []candidate.Candidate {
	out, _ := m.ListByJob(context.Background(), jobID)
	return out
}

// mockCache keeps values as the Go values they were stored with, which is
// enough for the use cases: they only ever read back what they wrote.
type mockCache struct {
	mu      sync.Mutex
	values  map[string][]candidate.Candidate
	locks   map[string]string
	counts  map[string]int64
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{
		values: map[string][]candidate.Candidate{},
		locks:  map[string]string{},
		counts: map[string]int64{},
	}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return false, nil
	}
	dst, ok := out.(*[]candidate.Candidate)
	if !ok {
		return false, errors.New("unexpected cache target")
	}
	*dst = append([]candidate.Candidate(nil), v...)
	return true, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := value.([]candidate.Candidate)
	if !ok {
		return errors.New("unexpected cache value")
	}
	m.values[key] = append([]candidate.Candidate(nil), v...)
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.locks, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *mockCache) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locks[key]; ok {
		return false, nil
	}
	m.locks[key] = value
	return true, nil
}

func (m *mockCache) IncrBy(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key] += delta
	return m.counts[key], nil
}

func (m *mockCache) cached(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

func (m *mockCache) wasDeleted(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.deleted {
		if k == key {
			return true
		}
	}
	return false
}

type mockFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: map[string][]byte{}}
}

func (m *mockFileStore) Save(_ context.Context, owner, jobID uuid.UUID, fileName string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	key := owner.String() + "/" + jobID.String() + "/" + fileName
	m.files[key] = data
	return key, nil
}

func (m *mockFileStore) Open(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[key]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// mockAnalyzer answers per file name; unknown names get a default result.
type mockAnalyzer struct {
	mu       sync.Mutex
	results  map[string]gateway.AnalysisResult
	errs     map[string]error
	requests []gateway.Request
}

func (m *mockAnalyzer) AnalyzeFor(_ context.Context, _ gateway.Identity, req gateway.Request) (gateway.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if err, ok := m.errs[req.FileName]; ok {
		return gateway.AnalysisResult{}, err
	}
	if r, ok := m.results[req.FileName]; ok {
		return r, nil
	}
	return gateway.AnalysisResult{Name: "Candidate", MatchScore: 50}, nil
}

type mockProgress struct {
	mu     sync.Mutex
	events []ws.ProgressEvent
}

func (m *mockProgress) ScreeningProgress(_ uuid.UUID, evt ws.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func ownedTestJob(owner uuid.UUID) job.Job {
	req := "Go, PostgreSQL"
	return job.Job{
		ID:           uuid.New(),
		UserID:       owner,
		Title:        "Backend Engineer",
		Description:  "Build services in Go",
		Requirements: &req,
	}
}

func intPtr(v int) *int { return &v }
