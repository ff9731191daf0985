package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres. Skills and analysis results are
// stored as JSONB documents.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, job_role, status, skills, file_url, content, ats_score, keyword_match, analysis_results, job_description, created_at, updated_at`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (` + resumeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	skills, err := marshalSkills(resume.Skills)
	if err != nil {
		return err
	}
	results, err := json.Marshal(resume.AnalysisResults)
	if err != nil {
		return fmt.Errorf("marshal analysis results: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.JobRole,
		resume.Status,
		skills,
		nullableString(resume.FileURL),
		nullableString(resume.Content),
		resume.ATSScore,
		resume.KeywordMatch,
		results,
		nullableString(resume.JobDescription),
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE id = $1
LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// sortColumns is the allow-list for the list endpoint's sort parameter.
var sortColumns = map[string]string{
	"title":     "title",
	"jobRole":   "job_role",
	"status":    "status",
	"atsScore":  "ats_score",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// List returns the user's resumes filtered and sorted per q. Ordering is
// deterministic: the sort column is tie-broken by id.
func (r *PGRepo) List(ctx context.Context, userID string, q ListQuery) ([]Resume, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1`)
	args := []any{userID}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		fmt.Fprintf(&sb, ` AND (title ILIKE $%d OR job_role ILIKE $%d)`, len(args), len(args))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}

	column, ok := sortColumns[q.Sort]
	if !ok {
		column = "updated_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, ` ORDER BY %s %s, id ASC`, column, direction)

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update rewrites a resume row.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET title = $2,
    job_role = $3,
    status = $4,
    skills = $5,
    file_url = $6,
    content = $7,
    ats_score = $8,
    keyword_match = $9,
    analysis_results = $10,
    job_description = $11,
    updated_at = $12
WHERE id = $1`

	skills, err := marshalSkills(resume.Skills)
	if err != nil {
		return err
	}
	results, err := json.Marshal(resume.AnalysisResults)
	if err != nil {
		return fmt.Errorf("marshal analysis results: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.Title,
		resume.JobRole,
		resume.Status,
		skills,
		nullableString(resume.FileURL),
		nullableString(resume.Content),
		resume.ATSScore,
		resume.KeywordMatch,
		results,
		nullableString(resume.JobDescription),
		resume.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a resume row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates counts, average score, and the status histogram.
func (r *PGRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	var stats Stats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(ats_score), 0) FROM resumes WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalResumes, &stats.AvgATSScore)
	if err != nil {
		return Stats{}, err
	}

	counts := map[string]int{}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM resumes WHERE user_id = $1 GROUP BY status`,
		userID,
	)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	stats.Distribution = distributionFromCounts(counts)
	return stats, nil
}

// distributionFromCounts produces the fixed-order histogram the dashboard
// renders: Completed, Polishing, Draft.
func distributionFromCounts(counts map[string]int) []StatusCount {
	return []StatusCount{
		{Name: StatusCompleted, Value: counts[StatusCompleted]},
		{Name: StatusPolishing, Value: counts[StatusPolishing]},
		{Name: StatusDraft, Value: counts[StatusDraft]},
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var skills []byte
	var results []byte
	var fileURL sql.NullString
	var content sql.NullString
	var jobDescription sql.NullString

	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.JobRole,
		&resume.Status,
		&skills,
		&fileURL,
		&content,
		&resume.ATSScore,
		&resume.KeywordMatch,
		&results,
		&jobDescription,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}

	resume.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &resume.Skills); err != nil {
			return Resume{}, fmt.Errorf("unmarshal skills: %w", err)
		}
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &resume.AnalysisResults); err != nil {
			return Resume{}, fmt.Errorf("unmarshal analysis results: %w", err)
		}
	}
	if fileURL.Valid {
		resume.FileURL = fileURL.String
	}
	if content.Valid {
		resume.Content = content.String
	}
	if jobDescription.Valid {
		resume.JobDescription = jobDescription.String
	}
	return resume, nil
}

func marshalSkills(skills []string) ([]byte, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}
	return data, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
