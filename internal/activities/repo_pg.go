package activities

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create appends an activity row.
func (r *PGRepo) Create(ctx context.Context, activity Activity) error {
	const query = `
INSERT INTO activities (id, user_id, entity_id, action, ts)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.EntityID,
		activity.Action,
		activity.Timestamp,
	)
	return err
}

// RecentByUser returns the newest activities for a user, with the referenced
// resume title joined in where the resume still exists.
func (r *PGRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
SELECT a.id, a.entity_id, a.action, a.ts, COALESCE(res.title, '')
FROM activities a
LEFT JOIN resumes res ON res.id = a.entity_id
WHERE a.user_id = $1
ORDER BY a.ts DESC, a.id DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Activity, 0, limit)
	for rows.Next() {
		var activity Activity
		if err := rows.Scan(
			&activity.ID,
			&activity.EntityID,
			&activity.Action,
			&activity.Timestamp,
			&activity.EntityTitle,
		); err != nil {
			return nil, err
		}
		activity.UserID = userID
		out = append(out, activity)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
