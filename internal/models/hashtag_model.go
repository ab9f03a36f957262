package models

import (
	"strings"
	"time"
)

type Hashtag struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	UsageCount int64     `db:"usage_count" json:"usage_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type PostHashtag struct {
	PostID    int64 `db:"post_id" json:"post_id"`
	HashtagID int64 `db:"hashtag_id" json:"hashtag_id"`
}

const MaxHashtagLength = 100

// NormalizeHashtags trims whitespace and a leading '#', drops empty names
// and removes duplicates while keeping the first occurrence order.
func NormalizeHashtags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		name = strings.TrimSpace(strings.TrimLeft(name, "#"))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	return normalized
}
