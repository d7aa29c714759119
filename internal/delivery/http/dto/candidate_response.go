package dto

import (
	"time"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/screening"

	"github.com/google/uuid"
)

// CandidateResponse is the list/detail view of a candidate. The extracted
// resume text is never sent back.
type CandidateResponse struct {
	ID              uuid.UUID           `json:"id"`
	JobID           uuid.UUID           `json:"job_id"`
	Name            string              `json:"name"`
	Email           *string             `json:"email"`
	Phone           *string             `json:"phone"`
	Skills          []string            `json:"skills"`
	Education       *string             `json:"education"`
	Experience      *string             `json:"experience"`
	MatchScore      *int                `json:"match_score"`
	ScoreLabel      string              `json:"score_label"`
	KeyMatches      []string            `json:"key_matches"`
	MissingSkills   []string            `json:"missing_skills"`
	AnalysisSummary *string             `json:"analysis_summary"`
	IsShortlisted   candidate.Shortlist `json:"is_shortlisted"`
	ShortlistedAt   *time.Time          `json:"shortlisted_at"`
	ShortlistedBy   *uuid.UUID          `json:"shortlisted_by"`
	HasResumeFile   bool                `json:"has_resume_file"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

func NewCandidateResponse(c candidate.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:              c.ID,
		JobID:           c.JobID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Skills:          orEmpty(c.Skills),
		Education:       c.Education,
		Experience:      c.Experience,
		MatchScore:      c.MatchScore,
		ScoreLabel:      screening.ScoreLabel(c.MatchScore),
		KeyMatches:      orEmpty(c.KeyMatches),
		MissingSkills:   orEmpty(c.MissingSkills),
		AnalysisSummary: c.AnalysisSummary,
		IsShortlisted:   c.Shortlist,
		ShortlistedAt:   c.ShortlistedAt,
		ShortlistedBy:   c.ShortlistedBy,
		HasResumeFile:   c.ResumeFilePath != nil && *c.ResumeFilePath != "",
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
	}
}

type CandidateListResponse struct {
	Job               JobResponse          `json:"job"`
	Candidates        []CandidateResponse  `json:"candidates"`
	Stats             screening.Stats      `json:"stats"`
	Filters           screening.FilterSpec `json:"filters"`
	ActiveFilterCount int                  `json:"active_filter_count"`
	MinScoreThreshold int                  `json:"min_score_threshold"`
}

func NewCandidateListResponse(jobResp JobResponse, cs []candidate.Candidate, stats screening.Stats, spec screening.FilterSpec, active int) CandidateListResponse {
	out := make([]CandidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCandidateResponse(c))
	}
	return CandidateListResponse{
		Job:               jobResp,
		Candidates:        out,
		Stats:             stats,
		Filters:           spec,
		ActiveFilterCount: active,
		MinScoreThreshold: jobResp.MinScoreThreshold,
	}
}

type DecisionRequest struct {
	Decision string `json:"decision"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
