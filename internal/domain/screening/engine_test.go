package screening

import (
	"reflect"
	"testing"

	"resume-screener/internal/domain/candidate"
	"resume-screener/internal/domain/job"

	"github.com/google/uuid"
)

func score(v int) *int { return &v }

func text(s string) *string { return &s }

func fixture() []candidate.Candidate {
	return []candidate.Candidate{
		{ID: uuid.New(), Name: "Ada", MatchScore: score(92), Skills: []string{"Go", "PostgreSQL"}, Experience: text("5 years backend at Acme"), Shortlist: candidate.Shortlisted},
		{ID: uuid.New(), Name: "Grace", MatchScore: score(71), Skills: []string{"TypeScript", "React"}, Experience: text("Frontend lead"), Shortlist: candidate.Undecided},
		{ID: uuid.New(), Name: "Linus", MatchScore: score(40), Skills: []string{"C", "Kernel"}, Experience: text("Systems programming"), Shortlist: candidate.Rejected},
		{ID: uuid.New(), Name: "Margaret", MatchScore: score(65), Skills: nil, Experience: nil, Shortlist: candidate.Undecided},
		{ID: uuid.New(), Name: "Pending Applicant", MatchScore: nil, Status: candidate.StatusPending},
	}
}

func names(cs []candidate.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestFilter_DefaultSpecReturnsInputInOrder(t *testing.T) {
	in := fixture()
	got := Filter(in, DefaultFilterSpec())
	if !reflect.DeepEqual(names(got), names(in)) {
		t.Fatalf("expected %v, got %v", names(in), names(got))
	}
}

func TestFilter_Idempotent(t *testing.T) {
	specs := []FilterSpec{
		DefaultFilterSpec(),
		{MinScore: 50, MaxScore: 100, Status: StatusAll},
		{MinScore: 0, MaxScore: 100, SkillSearch: "go, react", Status: StatusAll},
		{MinScore: 0, MaxScore: 80, ExperienceSearch: "LEAD", Status: StatusPending},
		{MinScore: 0, MaxScore: 100, Status: StatusRejected},
	}

	for _, spec := range specs {
		once := Filter(fixture(), spec)
		twice := Filter(once, spec)
		if !reflect.DeepEqual(names(once), names(twice)) {
			t.Fatalf("spec %+v not idempotent: %v vs %v", spec, names(once), names(twice))
		}
	}
}

func TestFilter_UnscoredCandidateRangedAsZero(t *testing.T) {
	in := []candidate.Candidate{{Name: "unscored"}}

	if got := Filter(in, DefaultFilterSpec()); len(got) != 1 {
		t.Fatalf("expected unscored candidate in default range, got %v", names(got))
	}

	spec := DefaultFilterSpec()
	spec.MinScore = 1
	if got := Filter(in, spec); len(got) != 0 {
		t.Fatalf("expected unscored candidate dropped for lower bound 1, got %v", names(got))
	}
}

func TestFilter_ScoreRangeInclusive(t *testing.T) {
	spec := FilterSpec{MinScore: 65, MaxScore: 92, Status: StatusAll}
	got := names(Filter(fixture(), spec))
	want := []string{"Ada", "Grace", "Margaret"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_SkillSearchIsOrOfSubstrings(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.SkillSearch = " postgres ,  REACT "
	got := names(Filter(fixture(), spec))
	want := []string{"Ada", "Grace"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_TrailingCommaMatchesAnyListedSkill(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.SkillSearch = "react,"
	got := names(Filter(fixture(), spec))
	want := []string{"Ada", "Grace", "Linus"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilter_EmptySkillsNeverMatchSearch(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.SkillSearch = "a"
	for _, c := range Filter(fixture(), spec) {
		if len(c.Skills) == 0 {
			t.Fatalf("candidate %q without skills matched a skill search", c.Name)
		}
	}
}

func TestFilter_ExperienceSearch(t *testing.T) {
	spec := DefaultFilterSpec()
	spec.ExperienceSearch = "BACKEND"
	got := names(Filter(fixture(), spec))
	if !reflect.DeepEqual(got, []string{"Ada"}) {
		t.Fatalf("expected [Ada], got %v", got)
	}
}

func TestFilter_StatusSelector(t *testing.T) {
	cases := map[Status][]string{
		StatusShortlisted: {"Ada"},
		StatusRejected:    {"Linus"},
		StatusPending:     {"Grace", "Margaret", "Pending Applicant"},
	}
	for st, want := range cases {
		spec := DefaultFilterSpec()
		spec.Status = st
		got := names(Filter(fixture(), spec))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("status %s: expected %v, got %v", st, want, got)
		}
	}
}

func TestComputeStats_TriStatePartition(t *testing.T) {
	s := ComputeStats(fixture(), 60)
	if s.Shortlisted+s.Rejected+s.Pending != s.Total {
		t.Fatalf("partition broken: %+v", s)
	}
	if s.Total != 5 || s.Shortlisted != 1 || s.Rejected != 1 || s.Pending != 3 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	// Grace (71) and Margaret (65); Ada is shortlisted and does not count.
	if s.AutoQualified != 2 {
		t.Fatalf("expected 2 auto-qualified, got %d", s.AutoQualified)
	}
}

func TestComputeStats_AutoQualifiedIgnoresDecided(t *testing.T) {
	in := []candidate.Candidate{
		{MatchScore: score(99), Shortlist: candidate.Shortlisted},
		{MatchScore: score(99), Shortlist: candidate.Rejected},
	}
	if got := ComputeStats(in, 0).AutoQualified; got != 0 {
		t.Fatalf("expected 0 auto-qualified, got %d", got)
	}
}

func TestComputeStats_UnscoredNeverAutoQualifies(t *testing.T) {
	in := []candidate.Candidate{{MatchScore: nil}, {MatchScore: score(0)}}
	if got := ComputeStats(in, 0).AutoQualified; got != 0 {
		t.Fatalf("expected 0 auto-qualified, got %d", got)
	}
}

func TestEndToEnd_ThresholdSeventy(t *testing.T) {
	threshold := 70
	j := job.Job{MinScoreThreshold: &threshold}
	in := []candidate.Candidate{
		{Name: "eighty", MatchScore: score(80), Shortlist: candidate.Shortlisted},
		{Name: "sixty-five", MatchScore: score(65)},
		{Name: "seventy-five", MatchScore: score(75)},
	}

	if got := StatsForJob(in, j).AutoQualified; got != 1 {
		t.Fatalf("expected 1 auto-qualified, got %d", got)
	}

	spec := DefaultFilterSpec()
	spec.Status = StatusPending
	got := names(Filter(in, spec))
	want := []string{"sixty-five", "seventy-five"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStatsForJob_DefaultThreshold(t *testing.T) {
	in := []candidate.Candidate{{MatchScore: score(59)}, {MatchScore: score(60)}}
	if got := StatsForJob(in, job.Job{}).AutoQualified; got != 1 {
		t.Fatalf("expected default threshold 60 to qualify one, got %d", got)
	}
}

func TestActiveFilterCount(t *testing.T) {
	if n := ActiveFilterCount(DefaultFilterSpec()); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	spec := FilterSpec{MinScore: 10, MaxScore: 100, SkillSearch: "go", ExperienceSearch: "lead", Status: StatusRejected}
	if n := ActiveFilterCount(spec); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus(""); !ok || st != StatusAll {
		t.Fatalf("empty status should default to all, got %q %v", st, ok)
	}
	if st, ok := ParseStatus("Pending"); !ok || st != StatusPending {
		t.Fatalf("got %q %v", st, ok)
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestScoreLabel(t *testing.T) {
	cases := []struct {
		score *int
		want  string
	}{
		{nil, "Pending"},
		{score(0), "Pending"},
		{score(95), "Excellent"},
		{score(90), "Excellent"},
		{score(75), "Strong"},
		{score(60), "Moderate"},
		{score(59), "Low"},
	}
	for _, tc := range cases {
		if got := ScoreLabel(tc.score); got != tc.want {
			t.Fatalf("ScoreLabel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
