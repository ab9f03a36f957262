package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHashtags(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"strips hash and spaces", []string{" #go ", "##rust"}, []string{"go", "rust"}},
		{"drops empty", []string{"", "  ", "#", "go"}, []string{"go"}},
		{"keeps first occurrence", []string{"b", "a", "#b", "a"}, []string{"b", "a"}},
		{"case sensitive", []string{"Go", "go"}, []string{"Go", "go"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeHashtags(tc.in))
		})
	}
}

func TestComputeEngagementRate(t *testing.T) {
	stats := PostStats{Likes: 5, Comments: 2, Shares: 1, Saves: 2, Reach: 200}
	assert.Equal(t, 5.0, stats.ComputeEngagementRate())

	stats = PostStats{Likes: 1, Reach: 3}
	assert.Equal(t, 33.33, stats.ComputeEngagementRate())

	stats = PostStats{Likes: 10}
	assert.Equal(t, 0.0, stats.ComputeEngagementRate())

	// views and impressions are not engagements
	stats = PostStats{Views: 1000, Impressions: 1000, Reach: 10}
	assert.Equal(t, 0.0, stats.ComputeEngagementRate())
}
