package schema

import "time"

// AuditEntry is one immutable record of a workspace action.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    string    `json:"userId"`
}
