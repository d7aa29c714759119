package screening

import (
	"strings"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/job"
)

type Status string

const (
	StatusAll         Status = "all"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusPending     Status = "pending"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusAll, true
	case StatusAll, StatusShortlisted, StatusRejected, StatusPending:
		return st, true
	default:
		return "", false
	}
}

const (
	MinScore = 0
	MaxScore = 100
)

type FilterSpec struct {
	MinScore         int    `json:"min_score"`
	MaxScore         int    `json:"max_score"`
	SkillSearch      string `json:"skill_search"`
	ExperienceSearch string `json:"experience_search"`
	Status           Status `json:"status"`
}

func DefaultFilterSpec() FilterSpec {
	return FilterSpec{MinScore: MinScore, MaxScore: MaxScore, Status: StatusAll}
}

type Stats struct {
	Total         int `json:"total"`
	Shortlisted   int `json:"shortlisted"`
	Rejected      int `json:"rejected"`
	Pending       int `json:"pending"`
	AutoQualified int `json:"auto_qualified"`
}

// Filter returns the candidates that pass every dimension of spec, in input
// order. Unscored candidates are ranged as score 0.
func Filter(candidates []candidate.Candidate, spec FilterSpec) []candidate.Candidate {
	terms := skillTerms(spec.SkillSearch)
	exp := strings.ToLower(strings.TrimSpace(spec.ExperienceSearch))

	out := make([]candidate.Candidate, 0, len(candidates))
	for _, c := range candidates {
		score := c.Score()
		if score < spec.MinScore || score > spec.MaxScore {
			continue
		}
		if !matchesStatus(c.Shortlist, spec.Status) {
			continue
		}
		if len(terms) > 0 && !matchesAnySkill(c.Skills, terms) {
			continue
		}
		if exp != "" && !strings.Contains(strings.ToLower(c.ExperienceText()), exp) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ComputeStats summarises the full candidate set of a job. threshold is the
// job's effective min_score_threshold.
func ComputeStats(candidates []candidate.Candidate, threshold int) Stats {
	var s Stats
	s.Total = len(candidates)
	for _, c := range candidates {
		switch c.Shortlist {
		case candidate.Shortlisted:
			s.Shortlisted++
		case candidate.Rejected:
			s.Rejected++
		default:
			s.Pending++
			if c.MatchScore != nil && *c.MatchScore > 0 && *c.MatchScore >= threshold {
				s.AutoQualified++
			}
		}
	}
	return s
}

// StatsForJob is ComputeStats with the job's threshold, defaulting to 60.
func StatsForJob(candidates []candidate.Candidate, j job.Job) Stats {
	return ComputeStats(candidates, j.EffectiveThreshold())
}

// ActiveFilterCount counts the dimensions of spec that differ from the default.
func ActiveFilterCount(spec FilterSpec) int {
	n := 0
	if spec.MinScore != MinScore || spec.MaxScore != MaxScore {
		n++
	}
	if strings.TrimSpace(spec.SkillSearch) != "" {
		n++
	}
	if strings.TrimSpace(spec.ExperienceSearch) != "" {
		n++
	}
	if spec.Status != StatusAll && spec.Status != "" {
		n++
	}
	return n
}

func matchesStatus(s candidate.Shortlist, want Status) bool {
	switch want {
	case StatusShortlisted:
		return s == candidate.Shortlisted
	case StatusRejected:
		return s == candidate.Rejected
	case StatusPending:
		return s == candidate.Undecided
	default:
		return true
	}
}

// skillTerms splits a non-empty search on commas. Empty terms are kept: a
// trailing comma in "react," yields "", which matches any candidate that
// lists at least one skill.
func skillTerms(search string) []string {
	if strings.TrimSpace(search) == "" {
		return nil
	}
	parts := strings.Split(search, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

func matchesAnySkill(skills []string, terms []string) bool {
	for _, s := range skills {
		ls := strings.ToLower(s)
		for _, t := range terms {
			if strings.Contains(ls, t) {
				return true
			}
		}
	}
	return false
}
