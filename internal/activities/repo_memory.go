package activities

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Activity // userID -> activities

	// Titles resolves an entity ID to its current resume title, mirroring
	// the SQL join in PGRepo. Optional.
	Titles func(entityID string) string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Activity)}
}

// Create appends an activity row.
func (r *MemoryRepo) Create(ctx context.Context, activity Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[activity.UserID] = append(r.data[activity.UserID], activity)
	return nil
}

// RecentByUser returns the newest activities for a user.
func (r *MemoryRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	rows := make([]Activity, len(r.data[userID]))
	copy(rows, r.data[userID])
	r.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	if r.Titles != nil {
		for i := range rows {
			rows[i].EntityTitle = r.Titles(rows[i].EntityID)
		}
	}
	return rows, nil
}

var _ Repo = (*MemoryRepo)(nil)
