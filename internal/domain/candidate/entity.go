package candidate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAnalyzed = "analyzed"

	// MaxResumeTextLen bounds the stored resume_text column.
	MaxResumeTextLen = 10000
)

// Shortlist is the HR decision on a candidate. On the wire and in the
// database it is a nullable boolean: null, true, false.
type Shortlist int8

const (
	Undecided Shortlist = iota
	Shortlisted
	Rejected
)

func (s Shortlist) String() string {
	switch s {
	case Shortlisted:
		return "shortlisted"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Bool returns the column value for s.
func (s Shortlist) Bool() *bool {
	switch s {
	case Shortlisted:
		v := true
		return &v
	case Rejected:
		v := false
		return &v
	default:
		return nil
	}
}

func ShortlistFromBool(b *bool) Shortlist {
	if b == nil {
		return Undecided
	}
	if *b {
		return Shortlisted
	}
	return Rejected
}

func (s Shortlist) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Bool())
}

func (s *Shortlist) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = Undecided
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("is_shortlisted: %w", err)
	}
	*s = ShortlistFromBool(&v)
	return nil
}

type Decision string

const (
	DecisionShortlist Decision = "shortlist"
	DecisionReject    Decision = "reject"
	DecisionUndo      Decision = "undo"
)

var (
	ErrInvalidTransition = errors.New("invalid shortlist transition")
	ErrUnknownDecision   = errors.New("unknown decision")
	ErrNameRequired      = errors.New("name is required")
)

type Candidate struct {
	ID              uuid.UUID  `json:"id"`
	JobID           uuid.UUID  `json:"job_id"`
	Name            string     `json:"name"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	Skills          []string   `json:"skills"`
	Education       *string    `json:"education"`
	Experience      *string    `json:"experience"`
	ResumeText      *string    `json:"resume_text,omitempty"`
	ResumeFilePath  *string    `json:"resume_file_path"`
	MatchScore      *int       `json:"match_score"`
	KeyMatches      []string   `json:"key_matches"`
	MissingSkills   []string   `json:"missing_skills"`
	AnalysisSummary *string    `json:"analysis_summary"`
	Shortlist       Shortlist  `json:"is_shortlisted"`
	ShortlistedAt   *time.Time `json:"shortlisted_at"`
	ShortlistedBy   *uuid.UUID `json:"shortlisted_by"`
	Status          string     `json:"status"`
	ApplicantID     *uuid.UUID `json:"applicant_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Score is the match score used for range filtering; unscored candidates count as 0.
func (c Candidate) Score() int {
	if c.MatchScore == nil {
		return 0
	}
	return *c.MatchScore
}

func (c Candidate) ExperienceText() string {
	if c.Experience == nil {
		return ""
	}
	return *c.Experience
}

// Decide applies an HR decision. Shortlist and reject switch freely between
// the three states; repeating the current decision keeps the existing stamp.
// Undo is only valid on a decided candidate. Shortlisting stamps time and
// actor, every other outcome clears them.
func (c *Candidate) Decide(d Decision, actor uuid.UUID, now time.Time) error {
	switch d {
	case DecisionShortlist:
		if c.Shortlist == Shortlisted {
			return nil
		}
		at := now.UTC()
		by := actor
		c.Shortlist = Shortlisted
		c.ShortlistedAt = &at
		c.ShortlistedBy = &by
	case DecisionReject:
		c.Shortlist = Rejected
		c.ShortlistedAt = nil
		c.ShortlistedBy = nil
	case DecisionUndo:
		if c.Shortlist == Undecided {
			return ErrInvalidTransition
		}
		c.Shortlist = Undecided
		c.ShortlistedAt = nil
		c.ShortlistedBy = nil
	default:
		return ErrUnknownDecision
	}
	return nil
}

func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DecisionShortlist, DecisionReject, DecisionUndo:
		return d, nil
	default:
		return "", ErrUnknownDecision
	}
}

// TruncateResumeText caps s at MaxResumeTextLen runes.
func TruncateResumeText(s string) string {
	r := []rune(s)
	if len(r) <= MaxResumeTextLen {
		return s
	}
	return string(r[:MaxResumeTextLen])
}
