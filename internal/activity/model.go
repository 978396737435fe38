// Package activity provides the append-only per-property event log.
package activity

import "time"

// Type identifies a kind of recorded state transition.
type Type string

const (
	ShowingRequested         Type = "showing_requested"
	ShowingApproved          Type = "showing_approved"
	ShowingDeclined          Type = "showing_declined"
	ShowingRescheduled       Type = "showing_rescheduled"
	ShowingFeedbackSubmitted Type = "showing_feedback_submitted"
	ShowingReminderSent      Type = "showing_reminder_sent"
	BlockAdded               Type = "block_added"
	PackageCreated           Type = "package_created"
	DisclosureRequested      Type = "disclosure_requested"
	ShareApproved            Type = "share_approved"
	ShareDownload            Type = "share_download"
	ShareFeedbackSubmitted   Type = "share_feedback_submitted"
)

// Details carries event-specific fields such as IDs and old/new times.
type Details map[string]any

// Event is one immutable audit record.
type Event struct {
	ID         int64     `json:"id"`
	PropertyID string    `json:"property_id"`
	Type       Type      `json:"type"`
	Details    Details   `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}
