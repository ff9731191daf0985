package resumes

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used in dev mode when no
// database is configured and by handler tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume // id -> resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

// Create stores a new resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.ID] = resume
	return nil
}

// GetByID returns the resume with the given id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// List returns the user's resumes filtered and sorted per q.
func (r *MemoryRepo) List(ctx context.Context, userID string, q ListQuery) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	search := strings.ToLower(q.Search)

	r.mu.RLock()
	out := []Resume{}
	for _, resume := range r.data {
		if resume.UserID != userID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(resume.Title), search) &&
			!strings.Contains(strings.ToLower(resume.JobRole), search) {
			continue
		}
		if q.Status != "" && resume.Status != q.Status {
			continue
		}
		out = append(out, resume)
	}
	r.mu.RUnlock()

	asc := strings.EqualFold(q.Order, "asc")
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less, equal bool
		switch q.Sort {
		case "title":
			less, equal = a.Title < b.Title, a.Title == b.Title
		case "jobRole":
			less, equal = a.JobRole < b.JobRole, a.JobRole == b.JobRole
		case "status":
			less, equal = a.Status < b.Status, a.Status == b.Status
		case "atsScore":
			less, equal = a.ATSScore < b.ATSScore, a.ATSScore == b.ATSScore
		case "createdAt":
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		default:
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		}
		if equal {
			// id tiebreak keeps ordering deterministic, matching PGRepo.
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})
	return out, nil
}

// Update rewrites a stored resume.
func (r *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[resume.ID]; !ok {
		return ErrNotFound
	}
	r.data[resume.ID] = resume
	return nil
}

// Delete removes a stored resume.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// Stats aggregates the user's resumes for the dashboard.
func (r *MemoryRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats Stats
	var scoreSum int
	counts := map[string]int{}
	for _, resume := range r.data {
		if resume.UserID != userID {
			continue
		}
		stats.TotalResumes++
		scoreSum += resume.ATSScore
		counts[resume.Status]++
	}
	if stats.TotalResumes > 0 {
		stats.AvgATSScore = float64(scoreSum) / float64(stats.TotalResumes)
	}
	stats.Distribution = distributionFromCounts(counts)
	return stats, nil
}

// Title returns the current title of a stored resume, or "" when it no longer
// exists. Used to resolve activity entity titles in memory mode.
func (r *MemoryRepo) Title(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data[id].Title
}

var _ Repo = (*MemoryRepo)(nil)
