package resumes

import "time"

// Resume lifecycle states.
const (
	StatusDraft     = "Draft"
	StatusPolishing = "Polishing"
	StatusCompleted = "Completed"
)

// ValidStatus reports whether s is one of the allowed lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPolishing, StatusCompleted:
		return true
	}
	return false
}

// AnalysisResults is the structured feedback stored alongside a resume.
type AnalysisResults struct {
	MissingKeywords  []string `json:"missingKeywords"`
	FormattingIssues []string `json:"formattingIssues"`
	Improvements     []string `json:"improvements"`
	Summary          string   `json:"summary"`
}

// Resume is one scanned or manually created resume, owned by exactly one user.
type Resume struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	JobRole         string          `json:"jobRole"`
	Status          string          `json:"status"`
	Skills          []string        `json:"skills"`
	FileURL         string          `json:"fileUrl,omitempty"`
	Content         string          `json:"content,omitempty"`
	ATSScore        int             `json:"atsScore"`
	KeywordMatch    int             `json:"keywordMatch"`
	AnalysisResults AnalysisResults `json:"analysisResults"`
	JobDescription  string          `json:"jobDescription,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
