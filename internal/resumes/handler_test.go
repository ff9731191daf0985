package resumes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/activities"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/analysis"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/auth"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, analyzer Analyzer) (*gin.Engine, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	acts := activities.NewMemoryRepo()
	acts.Titles = repo.Title
	svc := NewService(repo, acts, discardStore{}, analyzer)

	tokens := auth.NewManager("handler-test-secret", auth.DefaultTTL)
	router := gin.New()
	group := router.Group("/api/resume")
	group.Use(middleware.Auth(tokens))
	NewHandler(svc).RegisterRoutes(group)
	return router, tokens
}

func tokenFor(t *testing.T, tokens *auth.Manager, userID string) string {
	t.Helper()
	token, err := tokens.Sign(auth.Claims{UserID: userID, Email: userID + "@x.com", Name: userID})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-auth-token", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResume(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}

func uploadRequest(t *testing.T, token, fileName, contentType string, payload []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("x-auth-token", token)
	return req
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	token := tokenFor(t, tokens, "user-1")

	req := uploadRequest(t, token, "resume.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("word doc"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Only PDF files are allowed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadWithoutAICredentialGetsFallbackScores(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	token := tokenFor(t, tokens, "user-1")

	req := uploadRequest(t, token, "my resume.pdf", "application/pdf", []byte("%PDF-1.4 garbage"), map[string]string{
		"jobRole": "Platform Engineer",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeResume(t, rec)
	if body["atsScore"] != float64(75) || body["keywordMatch"] != float64(60) {
		t.Fatalf("want fallback scores 75/60, got %v/%v", body["atsScore"], body["keywordMatch"])
	}
	if body["jobRole"] != "Platform Engineer" {
		t.Fatalf("job role dropped: %v", body["jobRole"])
	}

	results, ok := body["analysisResults"].(map[string]any)
	if !ok {
		t.Fatalf("missing analysisResults: %v", body)
	}
	if results["summary"] != "Fallback analysis due to technical issue." {
		t.Fatalf("unexpected summary: %v", results["summary"])
	}
	// suggestions mirrors improvements for older clients
	improvements, _ := results["improvements"].([]any)
	suggestions, _ := results["suggestions"].([]any)
	if len(improvements) == 0 || len(improvements) != len(suggestions) {
		t.Fatalf("suggestions/improvements mismatch: %v vs %v", improvements, suggestions)
	}

	// Round-trip: the stored resume is fetchable with the same scores.
	id, _ := body["id"].(string)
	got := doJSON(t, router, http.MethodGet, "/api/resume/"+id, token, nil)
	if got.Code != http.StatusOK {
		t.Fatalf("GET: want 200, got %d", got.Code)
	}
	fetched := decodeResume(t, got)
	if fetched["atsScore"] != float64(75) {
		t.Fatalf("stored score mismatch: %v", fetched["atsScore"])
	}
}

func TestResumeOwnerIsolation(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	owner := tokenFor(t, tokens, "owner")
	intruder := tokenFor(t, tokens, "intruder")

	rec := doJSON(t, router, http.MethodPost, "/api/resume", owner, gin.H{"title": "Mine"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := decodeResume(t, rec)["id"].(string)

	cases := []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPut, gin.H{"title": "Stolen"}},
		{http.MethodDelete, nil},
	}
	for _, tc := range cases {
		res := doJSON(t, router, tc.method, "/api/resume/"+id, intruder, tc.body)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("%s as intruder: want 401, got %d", tc.method, res.Code)
		}
	}

	// The owner still sees the untouched resume.
	res := doJSON(t, router, http.MethodGet, "/api/resume/"+id, owner, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("owner GET: want 200, got %d", res.Code)
	}
	if title := decodeResume(t, res)["title"]; title != "Mine" {
		t.Fatalf("resume mutated by intruder: %v", title)
	}
}

func TestDeleteUnknownResume(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	token := tokenFor(t, tokens, "user-1")

	rec := doJSON(t, router, http.MethodDelete, "/api/resume/does-not-exist", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListFiltersAndStats(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	token := tokenFor(t, tokens, "user-1")

	for _, payload := range []gin.H{
		{"title": "Go Backend", "jobRole": "Backend Engineer", "status": StatusCompleted},
		{"title": "Frontend CV", "jobRole": "React Developer", "status": StatusDraft},
		{"title": "SRE Resume", "jobRole": "Site Reliability Engineer", "status": StatusDraft},
	} {
		if rec := doJSON(t, router, http.MethodPost, "/api/resume", token, payload); rec.Code != http.StatusCreated {
			t.Fatalf("create %v: got %d", payload["title"], rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/resume?search=engineer&status=Draft", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", rec.Code)
	}
	var listed []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0]["title"] != "SRE Resume" {
		t.Fatalf("unexpected filter result: %v", listed)
	}

	bad := doJSON(t, router, http.MethodGet, "/api/resume?status=Archived", token, nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("invalid status filter: want 400, got %d", bad.Code)
	}

	stats := doJSON(t, router, http.MethodGet, "/api/resume/dashboard/stats", token, nil)
	if stats.Code != http.StatusOK {
		t.Fatalf("stats: want 200, got %d: %s", stats.Code, stats.Body.String())
	}
	body := decodeResume(t, stats)
	if body["totalResumes"] != float64(3) {
		t.Fatalf("want 3 resumes, got %v", body["totalResumes"])
	}
	dist, _ := body["statusDistribution"].([]any)
	if len(dist) != 3 {
		t.Fatalf("want fixed 3-slice distribution, got %v", dist)
	}
	first, _ := dist[0].(map[string]any)
	if first["name"] != StatusCompleted {
		t.Fatalf("distribution order: want Completed first, got %v", first["name"])
	}
	recent, _ := body["recentActivities"].([]any)
	if len(recent) != 3 {
		t.Fatalf("want 3 recent activities, got %v", body["recentActivities"])
	}
	newest, _ := recent[0].(map[string]any)
	if newest["action"] != activities.ActionCreated {
		t.Fatalf("unexpected newest activity: %v", newest)
	}
}

func TestUpdateInvalidStatus(t *testing.T) {
	router, tokens := newTestRouter(t, analysis.NewOrchestrator(nil))
	token := tokenFor(t, tokens, "user-1")

	rec := doJSON(t, router, http.MethodPost, "/api/resume", token, gin.H{"title": "CV"})
	id, _ := decodeResume(t, rec)["id"].(string)

	res := doJSON(t, router, http.MethodPut, "/api/resume/"+id, token, gin.H{"status": "Archived"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", res.Code, res.Body.String())
	}
}
