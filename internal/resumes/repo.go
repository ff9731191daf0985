package resumes

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("resume not found")

// ListQuery captures the list endpoint's filter/sort parameters.
type ListQuery struct {
	Search string // substring match on title or jobRole, case-insensitive
	Status string
	Sort   string // allow-listed field name; default updatedAt
	Order  string // "asc" or "desc"; default desc
}

// StatusCount is one slice of the dashboard status histogram.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats aggregates a user's resumes for the dashboard.
type Stats struct {
	TotalResumes int
	AvgATSScore  float64
	Distribution []StatusCount
}

// Repo defines persistence operations for resumes. Owner checks are the
// service's job; the store answers by id regardless of owner.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	List(ctx context.Context, userID string, q ListQuery) ([]Resume, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (Stats, error)
}
