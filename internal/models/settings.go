package models

// EmailNotifications toggles the transactional emails sent to users.
type EmailNotifications struct {
	PostScheduled bool `json:"post_scheduled" yaml:"post_scheduled"`
	PostPublished bool `json:"post_published" yaml:"post_published"`
	PostFailed    bool `json:"post_failed" yaml:"post_failed"`
	NewComment    bool `json:"new_comment" yaml:"new_comment"`
}

// SystemSettings are the administrator-managed moderation and posting rules.
type SystemSettings struct {
	AutoModeration     bool               `json:"auto_moderation" yaml:"auto_moderation"`
	ProfanityFilter    bool               `json:"profanity_filter" yaml:"profanity_filter"`
	LinkChecking       bool               `json:"link_checking" yaml:"link_checking"`
	MaxPostsPerDay     int                `json:"max_posts_per_day" yaml:"max_posts_per_day"`
	RequireApproval    bool               `json:"require_approval" yaml:"require_approval"`
	NotifyOnMention    bool               `json:"notify_on_mention" yaml:"notify_on_mention"`
	EmailNotifications EmailNotifications `json:"email_notifications" yaml:"email_notifications"`
}

// DefaultSystemSettings returns the factory defaults.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		AutoModeration:  true,
		ProfanityFilter: true,
		LinkChecking:    true,
		MaxPostsPerDay:  10,
		RequireApproval: false,
		NotifyOnMention: true,
		EmailNotifications: EmailNotifications{
			PostScheduled: true,
			PostPublished: true,
			PostFailed:    true,
			NewComment:    false,
		},
	}
}
