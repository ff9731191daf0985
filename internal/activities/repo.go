package activities

import "context"

// Repo defines persistence for the append-only activity trail.
type Repo interface {
	Create(ctx context.Context, activity Activity) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]Activity, error)
}
