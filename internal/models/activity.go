package models

import "time"

// ActivityAction names an auditable dashboard action.
type ActivityAction string

const (
	ActionLogin          ActivityAction = "login"
	ActionLogout         ActivityAction = "logout"
	ActionPostCreate     ActivityAction = "post_create"
	ActionPostUpdate     ActivityAction = "post_update"
	ActionPostDelete     ActivityAction = "post_delete"
	ActionSettingsUpdate ActivityAction = "settings_update"
	ActionBulkActivate   ActivityAction = "bulk_activate"
	ActionBulkDeactivate ActivityAction = "bulk_deactivate"
	ActionBulkDelete     ActivityAction = "bulk_delete"
	ActionStatusChange   ActivityAction = "status_change"
)

// ActivityEntry is one line of the admin activity log.
type ActivityEntry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Action    ActivityAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   string         `json:"details"`
}
