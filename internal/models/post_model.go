package models

import "time"

type Post struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	Username     string     `db:"username" json:"username,omitempty"`
	Title        string     `db:"title" json:"title"`
	Content      string     `db:"content" json:"content"`
	Status       string     `db:"status" json:"status"` // draft, scheduled, published, failed, deleted
	ScheduledAt  *time.Time `db:"scheduled_at" json:"scheduled_at"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at"`
	ErrorMessage *string    `db:"error_message" json:"error_message"`
	Hashtags     []string   `json:"hashtags"`
	StatsCount   int64      `db:"stats_count" json:"stats_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// PostPatch carries the fields of a coalescing update. Nil fields keep
// their stored value; a non-nil Hashtags replaces the associations.
type PostPatch struct {
	Title       *string
	Content     *string
	Status      *string
	ScheduledAt *time.Time
	Hashtags    *[]string
}

type PostFilter struct {
	UserID *int64
	Status string
	Limit  int
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
	PostStatusDeleted   = "deleted"
)

const CopySuffix = " (copy)"
