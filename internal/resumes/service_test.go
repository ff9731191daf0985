package resumes

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/activities"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/analysis"
)

type stubAnalyzer struct {
	result   analysis.Result
	lastText string
	lastRole string
	calls    int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) analysis.Result {
	s.calls++
	s.lastText = resumeText
	s.lastRole = jobDescription
	return s.result
}

// discardStore satisfies the object store without touching the filesystem.
type discardStore struct{}

func (discardStore) Save(ctx context.Context, userId, fileName string, r io.Reader) (string, int64, string, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", 0, "", err
	}
	return "mem/" + fileName, n, "application/pdf", nil
}

func (discardStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader()), nil
}

func newTestService(analyzer Analyzer) (*Service, *MemoryRepo, *activities.MemoryRepo) {
	repo := NewMemoryRepo()
	acts := activities.NewMemoryRepo()
	acts.Titles = repo.Title
	svc := NewService(repo, acts, discardStore{}, analyzer)
	return svc, repo, acts
}

func TestServiceCreateDefaultsAndAudit(t *testing.T) {
	svc, _, acts := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	resume, err := svc.Create(ctx, "user-1", CreateInput{Title: "  My CV  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resume.Title != "My CV" {
		t.Fatalf("title not trimmed: %q", resume.Title)
	}
	if resume.Status != StatusDraft {
		t.Fatalf("want default status Draft, got %q", resume.Status)
	}
	if resume.Skills == nil {
		t.Fatal("skills should default to an empty slice")
	}

	recent, err := acts.RecentByUser(ctx, "user-1", 5)
	if err != nil {
		t.Fatalf("RecentByUser: %v", err)
	}
	if len(recent) != 1 || recent[0].Action != activities.ActionCreated {
		t.Fatalf("unexpected audit trail: %+v", recent)
	}
	if recent[0].EntityTitle != "My CV" {
		t.Fatalf("want audit row joined to title, got %q", recent[0].EntityTitle)
	}
}

func TestServiceCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", CreateInput{Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title: want ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", CreateInput{Title: "CV", Status: "Archived"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status: want ErrInvalidInput, got %v", err)
	}
}

func TestServiceUploadScoresAndDefaults(t *testing.T) {
	analyzer := &stubAnalyzer{result: analysis.Result{
		ATSScore:     82,
		KeywordMatch: 74,
		Improvements: []string{"Quantify achievements"},
		Summary:      "Solid resume.",
	}}
	svc, repo, acts := newTestService(analyzer)
	ctx := context.Background()

	resume, err := svc.Upload(ctx, "user-1", "cv.pdf", []byte("not a real pdf"), "", "")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resume.Title != "cv.pdf" {
		t.Fatalf("want title defaulting to file name, got %q", resume.Title)
	}
	if resume.JobRole != "General" {
		t.Fatalf("want default job role General, got %q", resume.JobRole)
	}
	if analyzer.lastRole != "General Professional Role" {
		t.Fatalf("want analysis against General Professional Role, got %q", analyzer.lastRole)
	}
	if resume.Status != StatusCompleted {
		t.Fatalf("uploaded resume should be Completed, got %q", resume.Status)
	}
	if resume.ATSScore != 82 || resume.KeywordMatch != 74 {
		t.Fatalf("scores not applied: %+v", resume)
	}
	// Garbage bytes still go through extraction; the analyzer sees the
	// sentinel, not an error.
	if analyzer.lastText != analysis.SentinelExtractError {
		t.Fatalf("want extraction sentinel, got %q", analyzer.lastText)
	}

	stored, err := repo.GetByID(ctx, resume.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.AnalysisResults.Summary != "Solid resume." {
		t.Fatalf("analysis results not persisted: %+v", stored.AnalysisResults)
	}

	recent, _ := acts.RecentByUser(ctx, "user-1", 5)
	if len(recent) != 1 || recent[0].Action != activities.ActionUploaded {
		t.Fatalf("unexpected audit trail: %+v", recent)
	}
}

func TestServiceOwnershipChecks(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	resume, err := svc.Create(ctx, "owner", CreateInput{Title: "CV"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, "intruder", resume.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Get as intruder: want ErrNotOwner, got %v", err)
	}
	if _, err := svc.Get(ctx, "owner", "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get unknown id: want ErrNotFound, got %v", err)
	}

	title := "New"
	if _, err := svc.Update(ctx, "intruder", resume.ID, UpdateInput{Title: &title}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Update as intruder: want ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(ctx, "intruder", resume.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Delete as intruder: want ErrNotOwner, got %v", err)
	}

	if err := svc.Delete(ctx, "owner", resume.ID); err != nil {
		t.Fatalf("Delete as owner: %v", err)
	}
	if err := svc.Delete(ctx, "owner", resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	resume, err := svc.Create(ctx, "user-1", CreateInput{
		Title:   "CV",
		JobRole: "Backend",
		Skills:  []string{"Go"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := StatusPolishing
	updated, err := svc.Update(ctx, "user-1", resume.ID, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusPolishing {
		t.Fatalf("status not updated: %q", updated.Status)
	}
	if updated.Title != "CV" || updated.JobRole != "Backend" || len(updated.Skills) != 1 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(resume.UpdatedAt) && !updated.UpdatedAt.Equal(resume.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %v -> %v", resume.UpdatedAt, updated.UpdatedAt)
	}

	bad := "Archived"
	if _, err := svc.Update(ctx, "user-1", resume.ID, UpdateInput{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid status: want ErrInvalidInput, got %v", err)
	}
}

func TestServiceStats(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	mk := func(title, status string, score int) {
		t.Helper()
		resume, err := svc.Create(ctx, "user-1", CreateInput{Title: title, Status: status})
		if err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		resume.ATSScore = score
		if err := svc.repo.Update(ctx, resume); err != nil {
			t.Fatalf("Update %s: %v", title, err)
		}
	}
	mk("A", StatusDraft, 70)
	mk("B", StatusCompleted, 80)
	mk("C", StatusCompleted, 65)

	stats, err := svc.Stats(ctx, "user-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalResumes != 3 {
		t.Fatalf("want 3 resumes, got %d", stats.TotalResumes)
	}
	if stats.AvgATSScore != 71.7 {
		t.Fatalf("want avg rounded to one decimal (71.7), got %v", stats.AvgATSScore)
	}
	if stats.Distribution[0].Name != StatusCompleted || stats.Distribution[0].Value != 2 {
		t.Fatalf("unexpected distribution: %+v", stats.Distribution)
	}
	if len(stats.RecentActivities) != 3 {
		t.Fatalf("want 3 recent activities, got %d", len(stats.RecentActivities))
	}
}

func TestServiceListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	if _, err := svc.List(context.Background(), "user-1", ListQuery{Status: "Archived"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestServiceListOrderingDeterministic(t *testing.T) {
	svc, _, _ := newTestService(&stubAnalyzer{})
	ctx := context.Background()

	// Same-instant timestamps force the id tiebreak.
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	for _, title := range []string{"B", "A", "C"} {
		if _, err := svc.Create(ctx, "user-1", CreateInput{Title: title}); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	first, err := svc.List(ctx, "user-1", ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	second, err := svc.List(ctx, "user-1", ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("want 3 resumes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ordering not stable at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}
