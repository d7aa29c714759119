package job

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func TestJob_Validate(t *testing.T) {
	bad := EducationLevel("kindergarten")
	phd := EducationPhD

	cases := []struct {
		name string
		job  Job
		want error
	}{
		{name: "ok", job: Job{Title: "Go dev", Description: "d", MinScoreThreshold: intPtr(70), EducationLevel: &phd}},
		{name: "no title", job: Job{Title: " ", Description: "d"}, want: ErrTitleRequired},
		{name: "no description", job: Job{Title: "t"}, want: ErrDescriptionRequired},
		{name: "threshold low", job: Job{Title: "t", Description: "d", MinScoreThreshold: intPtr(-1)}, want: ErrThresholdRange},
		{name: "threshold high", job: Job{Title: "t", Description: "d", MinScoreThreshold: intPtr(101)}, want: ErrThresholdRange},
		{name: "threshold bounds", job: Job{Title: "t", Description: "d", MinScoreThreshold: intPtr(100)}},
		{name: "education", job: Job{Title: "t", Description: "d", EducationLevel: &bad}, want: ErrEducationLevel},
		{name: "experience", job: Job{Title: "t", Description: "d", MinExperienceYears: intPtr(-2)}, want: ErrExperienceYears},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.job.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestJob_EffectiveThreshold(t *testing.T) {
	if got := (Job{}).EffectiveThreshold(); got != DefaultMinScoreThreshold {
		t.Fatalf("expected default threshold, got %d", got)
	}
	if got := (Job{MinScoreThreshold: intPtr(0)}).EffectiveThreshold(); got != 0 {
		t.Fatalf("expected explicit zero threshold, got %d", got)
	}
}

func TestJob_OwnedBy(t *testing.T) {
	owner := uuid.New()
	j := Job{UserID: owner}
	if !j.OwnedBy(owner) {
		t.Fatal("expected owner match")
	}
	if j.OwnedBy(uuid.New()) {
		t.Fatal("expected owner mismatch")
	}
	if (Job{}).OwnedBy(uuid.Nil) {
		t.Fatal("nil owner must never match")
	}
}
