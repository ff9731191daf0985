package analysis

// Result is the structured outcome of scoring a resume against a role or job
// description. Callers always receive a well-formed Result; degraded runs
// carry the canned fallback content instead of an error.
type Result struct {
	ATSScore         int      `json:"atsScore"`
	KeywordMatch     int      `json:"keywordMatch"`
	MissingKeywords  []string `json:"missingKeywords"`
	FormattingIssues []string `json:"formattingIssues"`
	Improvements     []string `json:"improvements"`
	Summary          string   `json:"summary"`
}

// FallbackResult returns the canned analysis used whenever real scoring is
// unavailable or fails. The optional message surfaces the failure reason
// inside formattingIssues; nothing else varies.
func FallbackResult(message string) Result {
	if message == "" {
		message = "Could not analyze resume."
	}
	return Result{
		ATSScore:         75,
		KeywordMatch:     60,
		MissingKeywords:  []string{"React", "Node.js", "Docker", "AWS"},
		FormattingIssues: []string{message},
		Improvements:     []string{"Quantify achievements", "Update skills section"},
		Summary:          "Fallback analysis due to technical issue.",
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
