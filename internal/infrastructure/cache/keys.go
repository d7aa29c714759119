package cache

import "github.com/google/uuid"

// CandidatesKey holds the cached candidate rows of one job.
func CandidatesKey(jobID uuid.UUID) string {
	return "candidates:job:" + jobID.String()
}

// CandidatesGenKey counts invalidations of CandidatesKey for the same job.
func CandidatesGenKey(jobID uuid.UUID) string {
	return "candidates:gen:" + jobID.String()
}

// ScreeningLockKey guards a job against two concurrent screening batches.
func ScreeningLockKey(jobID uuid.UUID) string {
	return "screening:lock:" + jobID.String()
}
