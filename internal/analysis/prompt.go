package analysis

import "fmt"

// maxResumeChars caps the resume text embedded in the prompt.
const maxResumeChars = 15000

const promptTemplate = `You are an expert Resume Analyst and ATS (Applicant Tracking System) simulator.

Analyze the following resume against the provided job description (or general role if JD is vague).

Resume Text:
"%s"

Job Description:
"%s"

Provide a detailed analysis in JSON format. Return ONLY the raw JSON string. Structure:
{
    "atsScore": (0-100 score),
    "keywordMatch": (0-100 score),
    "missingKeywords": ["list"],
    "formattingIssues": ["list"],
    "improvements": ["list"],
    "summary": "Professional summary."
}`

// BuildPrompt assembles the single scoring prompt, truncating the resume text
// to maxResumeChars.
func BuildPrompt(resumeText, jobDescription string) string {
	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}
	return fmt.Sprintf(promptTemplate, resumeText, jobDescription)
}
