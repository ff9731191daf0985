package resumes

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/activities"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/server/middleware"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/server/respond"
)

// maxUploadBytes caps uploaded PDFs at 5 MB.
const maxUploadBytes = 5 << 20

// Handler wires HTTP handlers to the resume service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the resume routes. All of them require auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/dashboard/stats", h.stats)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.remove)
}

// analysisView mirrors AnalysisResults with a suggestions alias kept for
// older dashboard clients.
type analysisView struct {
	MissingKeywords  []string `json:"missingKeywords"`
	FormattingIssues []string `json:"formattingIssues"`
	Improvements     []string `json:"improvements"`
	Suggestions      []string `json:"suggestions"`
	Summary          string   `json:"summary"`
}

type resumeView struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	Title           string       `json:"title"`
	JobRole         string       `json:"jobRole"`
	Status          string       `json:"status"`
	Skills          []string     `json:"skills"`
	FileURL         string       `json:"fileUrl,omitempty"`
	Content         string       `json:"content,omitempty"`
	ATSScore        int          `json:"atsScore"`
	KeywordMatch    int          `json:"keywordMatch"`
	AnalysisResults analysisView `json:"analysisResults"`
	JobDescription  string       `json:"jobDescription,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func view(r Resume) resumeView {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return resumeView{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		JobRole:      r.JobRole,
		Status:       r.Status,
		Skills:       skills,
		FileURL:      r.FileURL,
		Content:      r.Content,
		ATSScore:     r.ATSScore,
		KeywordMatch: r.KeywordMatch,
		AnalysisResults: analysisView{
			MissingKeywords:  emptyIfNil(r.AnalysisResults.MissingKeywords),
			FormattingIssues: emptyIfNil(r.AnalysisResults.FormattingIssues),
			Improvements:     emptyIfNil(r.AnalysisResults.Improvements),
			Suggestions:      emptyIfNil(r.AnalysisResults.Improvements),
			Summary:          r.AnalysisResults.Summary,
		},
		JobDescription: r.JobDescription,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1024)

	file, err := c.FormFile("resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file uploaded", nil)
		return
	}
	if file.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File too large. Maximum size is 5MB.", nil)
		return
	}
	if !isPDF(file.Filename, file.Header.Get("Content-Type")) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are allowed", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "File too large. Maximum size is 5MB.", nil)
		return
	}

	title := c.PostForm("title")
	jobRole := c.PostForm("jobRole")

	resume, err := h.Svc.Upload(c.Request.Context(), userID, file.Filename, data, title, jobRole)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process upload", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, view(resume))
}

// isPDF accepts by extension or declared content type; the extraction step
// handles payloads that merely claim to be PDFs.
func isPDF(fileName, contentType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return true
	}
	return contentType == "application/pdf"
}

type createRequest struct {
	Title          string   `json:"title"`
	JobRole        string   `json:"jobRole"`
	Status         string   `json:"status"`
	Skills         []string `json:"skills"`
	Content        string   `json:"content"`
	JobDescription string   `json:"jobDescription"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), CreateInput{
		Title:          req.Title,
		JobRole:        req.JobRole,
		Status:         req.Status,
		Skills:         req.Skills,
		Content:        req.Content,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please provide a valid title and status", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create resume", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, view(resume))
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	}

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), q)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid status filter", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}

	views := make([]resumeView, 0, len(items))
	for _, item := range items {
		views = append(views, view(item))
	}
	respond.OK(c, views)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load dashboard stats", nil)
		return
	}
	if stats.RecentActivities == nil {
		stats.RecentActivities = []activities.Activity{}
	}
	respond.OK(c, stats)
}

func (h *Handler) get(c *gin.Context) {
	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.renderAccessError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, view(resume))
}

type updateRequest struct {
	Title          *string  `json:"title"`
	JobRole        *string  `json:"jobRole"`
	Status         *string  `json:"status"`
	Skills         []string `json:"skills"`
	Content        *string  `json:"content"`
	JobDescription *string  `json:"jobDescription"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), UpdateInput{
		Title:          req.Title,
		JobRole:        req.JobRole,
		Status:         req.Status,
		Skills:         req.Skills,
		Content:        req.Content,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume fields", nil)
			return
		}
		h.renderAccessError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, view(resume))
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.renderAccessError(c, err, "failed to delete resume")
		return
	}
	respond.OK(c, gin.H{"msg": "Resume removed"})
}

// renderAccessError maps ownership and existence failures: an unknown id is
// 404, someone else's resume is 401.
func (h *Handler) renderAccessError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
	case errors.Is(err, ErrNotOwner):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authorized", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
