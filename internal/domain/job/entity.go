package job

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultMinScoreThreshold = 60

type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
)

func (e EducationLevel) Valid() bool {
	switch e {
	case EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationPhD:
		return true
	default:
		return false
	}
}

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrThresholdRange      = errors.New("min_score_threshold must be between 0 and 100")
	ErrEducationLevel      = errors.New("unknown education_level")
	ErrExperienceYears     = errors.New("min_experience_years must not be negative")
)

type Job struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Title              string
	Description        string
	Requirements       *string
	RequiredSkills     []string
	MinExperienceYears *int
	EducationLevel     *EducationLevel
	MinScoreThreshold  *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EffectiveThreshold is the auto-qualification cut-off, 60 when unset.
func (j Job) EffectiveThreshold() int {
	if j.MinScoreThreshold == nil {
		return DefaultMinScoreThreshold
	}
	return *j.MinScoreThreshold
}

func (j Job) OwnedBy(userID uuid.UUID) bool {
	return j.UserID != uuid.Nil && j.UserID == userID
}

func (j Job) RequirementsText() string {
	if j.Requirements == nil {
		return ""
	}
	return strings.TrimSpace(*j.Requirements)
}

func (j Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(j.Description) == "" {
		return ErrDescriptionRequired
	}
	if j.MinScoreThreshold != nil && (*j.MinScoreThreshold < 0 || *j.MinScoreThreshold > 100) {
		return ErrThresholdRange
	}
	if j.EducationLevel != nil && !j.EducationLevel.Valid() {
		return ErrEducationLevel
	}
	if j.MinExperienceYears != nil && *j.MinExperienceYears < 0 {
		return ErrExperienceYears
	}
	return nil
}
