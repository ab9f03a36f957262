package transfer

import "time"

type PostCreation struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Content     string     `json:"content" validate:"required"`
	Hashtags    []string   `json:"hashtags" validate:"max=30"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published failed"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// PostUpdate carries only the fields a client sent. A nil Hashtags leaves the
// associations alone, an empty slice clears them.
type PostUpdate struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Content     *string    `json:"content" validate:"omitempty,min=1"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft scheduled published failed"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Hashtags    *[]string  `json:"hashtags"`
}

type StatusUpdate struct {
	Status       string  `json:"status" validate:"required,oneof=draft scheduled published failed"`
	ErrorMessage *string `json:"errorMessage"`
}

type StatsRecord struct {
	Views       int64 `json:"views" validate:"gte=0"`
	Likes       int64 `json:"likes" validate:"gte=0"`
	Comments    int64 `json:"comments" validate:"gte=0"`
	Shares      int64 `json:"shares" validate:"gte=0"`
	Saves       int64 `json:"saves" validate:"gte=0"`
	Reach       int64 `json:"reach" validate:"gte=0"`
	Impressions int64 `json:"impressions" validate:"gte=0"`
}

type TemplateInput struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Content  string   `json:"content" validate:"required"`
	Hashtags []string `json:"hashtags" validate:"max=30"`
	IsActive *bool    `json:"isActive"`
}
