package screening

// ScoreLabel buckets a match score the way the candidate list presents it.
// A missing or zero score reads as "Pending".
func ScoreLabel(score *int) string {
	if score == nil || *score == 0 {
		return "Pending"
	}
	switch s := *score; {
	case s >= 90:
		return "Excellent"
	case s >= 75:
		return "Strong"
	case s >= 60:
		return "Moderate"
	default:
		return "Low"
	}
}
