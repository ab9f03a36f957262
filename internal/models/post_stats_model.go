package models

import (
	"math"
	"time"
)

type PostStats struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	Views          int64     `db:"views_count" json:"views_count"`
	Likes          int64     `db:"likes_count" json:"likes_count"`
	Comments       int64     `db:"comments_count" json:"comments_count"`
	Shares         int64     `db:"shares_count" json:"shares_count"`
	Saves          int64     `db:"saves_count" json:"saves_count"`
	Reach          int64     `db:"reach_count" json:"reach_count"`
	Impressions    int64     `db:"impressions_count" json:"impressions_count"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
}

// ComputeEngagementRate returns engagements per reach as a percentage
// rounded to two decimals.
func (s *PostStats) ComputeEngagementRate() float64 {
	if s.Reach <= 0 {
		return 0
	}
	engagements := s.Likes + s.Comments + s.Shares + s.Saves
	rate := float64(engagements) / float64(s.Reach) * 100
	return math.Round(rate*100) / 100
}
