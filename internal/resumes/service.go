package resumes

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/activities"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/analysis"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/storage/object"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/telemetry"
)

var (
	// ErrNotOwner means the resume exists but belongs to someone else.
	ErrNotOwner = errors.New("not authorized to access this resume")
	// ErrInvalidInput covers missing titles and unknown statuses.
	ErrInvalidInput = errors.New("invalid resume input")
)

// Analyzer scores extracted resume text against a target role. It is total;
// degraded AI access yields a canned fallback, never an error.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) analysis.Result
}

// Service owns resume business rules: ownership, validation, analysis, and
// the audit trail.
type Service struct {
	repo       Repo
	activities activities.Repo
	store      object.ObjectStore
	analyzer   Analyzer
	now        func() time.Time
}

// NewService wires a resume service.
func NewService(repo Repo, acts activities.Repo, store object.ObjectStore, analyzer Analyzer) *Service {
	return &Service{
		repo:       repo,
		activities: acts,
		store:      store,
		analyzer:   analyzer,
		now:        time.Now,
	}
}

// CreateInput is the payload for manual resume creation.
type CreateInput struct {
	Title          string
	JobRole        string
	Status         string
	Skills         []string
	Content        string
	JobDescription string
}

// Create stores a manually entered resume.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Resume{}, ErrInvalidInput
	}
	if in.JobRole == "" {
		in.JobRole = "General"
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !ValidStatus(in.Status) {
		return Resume{}, ErrInvalidInput
	}
	if in.Skills == nil {
		in.Skills = []string{}
	}

	now := s.now().UTC()
	resume := Resume{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          strings.TrimSpace(in.Title),
		JobRole:        in.JobRole,
		Status:         in.Status,
		Skills:         in.Skills,
		Content:        in.Content,
		JobDescription: in.JobDescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	s.record(ctx, userID, resume.ID, activities.ActionCreated)
	return resume, nil
}

// Upload persists an uploaded PDF, extracts its text, runs the analysis
// pipeline, and stores the scored resume. Analysis never fails the upload;
// unusable documents are scored with fallback values.
func (s *Service) Upload(ctx context.Context, userID, fileName string, data []byte, title, jobRole string) (Resume, error) {
	storageKey, _, _, err := s.store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Resume{}, err
	}

	text := analysis.ExtractTextFromBytes(fileName, data)

	role := strings.TrimSpace(jobRole)
	target := role
	if target == "" {
		target = "General Professional Role"
	}
	result := s.analyzer.Analyze(ctx, text, target)

	if title == "" {
		title = fileName
	}
	if role == "" {
		role = "General"
	}

	now := s.now().UTC()
	resume := Resume{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		JobRole:      role,
		Status:       StatusCompleted,
		Skills:       []string{},
		FileURL:      storageKey,
		Content:      text,
		ATSScore:     result.ATSScore,
		KeywordMatch: result.KeywordMatch,
		AnalysisResults: AnalysisResults{
			MissingKeywords:  result.MissingKeywords,
			FormattingIssues: result.FormattingIssues,
			Improvements:     result.Improvements,
			Summary:          result.Summary,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	s.record(ctx, userID, resume.ID, activities.ActionUploaded)
	return resume, nil
}

// Get returns one resume after verifying ownership.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	resume, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrNotOwner
	}
	return resume, nil
}

// List returns the user's resumes filtered and sorted per q.
func (s *Service) List(ctx context.Context, userID string, q ListQuery) ([]Resume, error) {
	if q.Status != "" && !ValidStatus(q.Status) {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, userID, q)
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title          *string
	JobRole        *string
	Status         *string
	Skills         []string
	Content        *string
	JobDescription *string
}

// Update applies a partial update after verifying ownership.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Resume, error) {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return Resume{}, ErrInvalidInput
		}
		resume.Title = strings.TrimSpace(*in.Title)
	}
	if in.JobRole != nil {
		resume.JobRole = *in.JobRole
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return Resume{}, ErrInvalidInput
		}
		resume.Status = *in.Status
	}
	if in.Skills != nil {
		resume.Skills = in.Skills
	}
	if in.Content != nil {
		resume.Content = *in.Content
	}
	if in.JobDescription != nil {
		resume.JobDescription = *in.JobDescription
	}
	resume.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, resume); err != nil {
		return Resume{}, err
	}
	s.record(ctx, userID, resume.ID, activities.ActionUpdated)
	return resume, nil
}

// Delete removes a resume after verifying ownership. The audit row survives
// the delete.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, userID, id, activities.ActionDeleted)
	return nil
}

// DashboardStats bundles the aggregate numbers and recent activity shown on
// the dashboard.
type DashboardStats struct {
	TotalResumes     int                   `json:"totalResumes"`
	AvgATSScore      float64               `json:"avgAtsScore"`
	Distribution     []StatusCount         `json:"statusDistribution"`
	RecentActivities []activities.Activity `json:"recentActivities"`
}

// Stats aggregates the user's resumes and their five most recent activities.
func (s *Service) Stats(ctx context.Context, userID string) (DashboardStats, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return DashboardStats{}, err
	}
	recent, err := s.activities.RecentByUser(ctx, userID, 5)
	if err != nil {
		return DashboardStats{}, err
	}
	if recent == nil {
		recent = []activities.Activity{}
	}
	return DashboardStats{
		TotalResumes:     stats.TotalResumes,
		AvgATSScore:      math.Round(stats.AvgATSScore*10) / 10,
		Distribution:     stats.Distribution,
		RecentActivities: recent,
	}, nil
}

// record appends an audit row. Audit failures are logged, never surfaced;
// they must not fail the primary operation.
func (s *Service) record(ctx context.Context, userID, entityID, action string) {
	err := s.activities.Create(ctx, activities.Activity{
		ID:        uuid.NewString(),
		UserID:    userID,
		EntityID:  entityID,
		Action:    action,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		telemetry.Error("activity.record_failed", map[string]any{
			"action": action,
			"error":  err.Error(),
		})
	}
}
