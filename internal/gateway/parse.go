package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// AnalysisResult is the model's structured verdict on one resume. When it was
// produced by parseCompletion it marshals back to the exact upstream object.
type AnalysisResult struct {
	Name          string   `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	Skills        []string `json:"skills"`
	Education     string   `json:"education"`
	Experience    string   `json:"experience"`
	MatchScore    int      `json:"matchScore"`
	KeyMatches    []string `json:"keyMatches"`
	MissingSkills []string `json:"missingSkills"`
	Summary       string   `json:"summary"`

	raw json.RawMessage
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain AnalysisResult
	return json.Marshal(plain(r))
}

// Raw returns the upstream JSON object, or nil for results built in code.
func (r AnalysisResult) Raw() json.RawMessage {
	return r.raw
}

var errNotObject = errors.New("completion is not a JSON object")

// stripFences removes a leading ```json or ``` and a trailing ``` fence.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type wireResult struct {
	Name          string      `json:"name"`
	Email         *string     `json:"email"`
	Phone         *string     `json:"phone"`
	Skills        []string    `json:"skills"`
	Education     string      `json:"education"`
	Experience    string      `json:"experience"`
	MatchScore    json.Number `json:"matchScore"`
	KeyMatches    []string    `json:"keyMatches"`
	MissingSkills []string    `json:"missingSkills"`
	Summary       string      `json:"summary"`
}

func parseCompletion(content string) (AnalysisResult, error) {
	cleaned := []byte(stripFences(content))
	if !bytes.HasPrefix(cleaned, []byte("{")) {
		return AnalysisResult{}, errNotObject
	}

	var w wireResult
	if err := json.Unmarshal(cleaned, &w); err != nil {
		return AnalysisResult{}, err
	}

	score, err := normalizeScore(w.MatchScore)
	if err != nil {
		return AnalysisResult{}, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, cleaned); err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		Name:          strings.TrimSpace(w.Name),
		Email:         w.Email,
		Phone:         w.Phone,
		Skills:        w.Skills,
		Education:     w.Education,
		Experience:    w.Experience,
		MatchScore:    score,
		KeyMatches:    w.KeyMatches,
		MissingSkills: w.MissingSkills,
		Summary:       w.Summary,
		raw:           compact.Bytes(),
	}, nil
}

// normalizeScore rounds fractional scores and clamps to 0..100.
func normalizeScore(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	score := int(math.Round(f))
	if score < 0 {
		return 0, nil
	}
	if score > 100 {
		return 100, nil
	}
	return score, nil
}
