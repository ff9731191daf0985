package activities

import "time"

// Action labels written to the audit trail.
const (
	ActionCreated  = "Created Resume"
	ActionUpdated  = "Updated Resume"
	ActionDeleted  = "Deleted Resume"
	ActionUploaded = "Uploaded & Analyzed Resume"
)

// Activity is one append-only audit row. EntityID references a resume and may
// outlive it; rows are never mutated or deleted.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	EntityID  string    `json:"entityId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`

	// EntityTitle is the referenced resume's title, populated for dashboard
	// reads; empty when the resume has since been deleted.
	EntityTitle string `json:"entityTitle,omitempty"`
}
