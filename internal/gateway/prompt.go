package gateway

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert ATS (Applicant Tracking System) resume analyzer. Read the candidate's resume and compare it with the job description.

Only report information that is actually present in the resume. Do not invent or assume details.

Respond with a single valid JSON object and nothing else, using exactly this structure:
{
  "name": "Full name of the candidate as written in the resume",
  "email": "Email address from the resume, or null if not found",
  "phone": "Phone number from the resume, or null if not found",
  "skills": ["skills", "listed", "in", "the", "resume"],
  "education": "Degrees, institutions and years from the resume",
  "experience": "Summary of work history: companies, roles, durations",
  "matchScore": 85,
  "keyMatches": ["skills or requirements the resume satisfies"],
  "missingSkills": ["skills the job requires that the resume lacks"],
  "summary": "Two or three sentences explaining the score"
}

matchScore is an integer from 0 to 100:
- 90-100: excellent match, meets almost all requirements
- 75-89: strong match, meets most key requirements
- 60-74: moderate match, meets some requirements
- 40-59: weak match, limited alignment
- below 40: poor match, significant gaps

Score on contextual similarity rather than keyword overlap. Similar technologies, transferable skills and relevant experience raise the score. Justify the score in the summary field.`

func buildUserPrompt(jobDescription, jobRequirements, resumeText string, hasDocument bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "JOB DESCRIPTION:\n%s\n\n", strings.TrimSpace(jobDescription))
	if req := strings.TrimSpace(jobRequirements); req != "" {
		fmt.Fprintf(&b, "ADDITIONAL REQUIREMENTS:\n%s\n\n", req)
	}

	if hasDocument {
		b.WriteString("Analyze the attached resume document and return the JSON object using only information found in it.")
		return b.String()
	}

	fmt.Fprintf(&b, "RESUME:\n%s\n\n", resumeText)
	b.WriteString("Analyze the resume above and return the JSON object using only information found in it.")
	return b.String()
}
