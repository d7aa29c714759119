package dto

import (
	"time"

	"resume-screener/internal/domain/job"

	"github.com/google/uuid"
)

type JobRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Requirements       *string  `json:"requirements"`
	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears *int     `json:"min_experience_years"`
	EducationLevel     *string  `json:"education_level"`
	MinScoreThreshold  *int     `json:"min_score_threshold"`
}

type JobResponse struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Requirements       *string   `json:"requirements"`
	RequiredSkills     []string  `json:"required_skills"`
	MinExperienceYears *int      `json:"min_experience_years"`
	EducationLevel     *string   `json:"education_level"`
	MinScoreThreshold  int       `json:"min_score_threshold"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	var edu *string
	if j.EducationLevel != nil {
		s := string(*j.EducationLevel)
		edu = &s
	}
	skills := j.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:                 j.ID,
		UserID:             j.UserID,
		Title:              j.Title,
		Description:        j.Description,
		Requirements:       j.Requirements,
		RequiredSkills:     skills,
		MinExperienceYears: j.MinExperienceYears,
		EducationLevel:     edu,
		MinScoreThreshold:  j.EffectiveThreshold(),
		CreatedAt:          j.CreatedAt,
		UpdatedAt:          j.UpdatedAt,
	}
}

func NewJobListResponse(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}
