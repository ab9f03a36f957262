package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
)

type PostStatsRepository interface {
	Record(ctx context.Context, stats *models.PostStats) (*models.PostStats, error)
	Latest(ctx context.Context, postID int64) (*models.PostStats, bool, error)
	History(ctx context.Context, postID int64, limit int) ([]*models.PostStats, error)
}

type postStatsRepository struct {
	db *sql.DB
}

func NewPostStatsRepository(db *sql.DB) PostStatsRepository {
	return &postStatsRepository{db: db}
}

const selectStats = `
	SELECT id, post_id, views_count, likes_count, comments_count, shares_count, saves_count,
		reach_count, impressions_count, engagement_rate, recorded_at
	FROM post_stats
`

func (r *postStatsRepository) Record(ctx context.Context, stats *models.PostStats) (*models.PostStats, error) {
	query := `
		INSERT INTO post_stats (post_id, views_count, likes_count, comments_count, shares_count, saves_count,
			reach_count, impressions_count, engagement_rate, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	recorded := *stats
	recorded.EngagementRate = recorded.ComputeEngagementRate()
	recorded.RecordedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query, recorded.PostID, recorded.Views, recorded.Likes, recorded.Comments,
		recorded.Shares, recorded.Saves, recorded.Reach, recorded.Impressions, recorded.EngagementRate,
		recorded.RecordedAt).Scan(&recorded.ID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &recorded, nil
}

func (r *postStatsRepository) Latest(ctx context.Context, postID int64) (*models.PostStats, bool, error) {
	history, err := r.History(ctx, postID, 1)
	if err != nil {
		return nil, false, err
	}
	if len(history) == 0 {
		return nil, false, nil
	}
	return history[0], true, nil
}

func (r *postStatsRepository) History(ctx context.Context, postID int64, limit int) ([]*models.PostStats, error) {
	query := selectStats + ` WHERE post_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, postID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.PostStats
	for rows.Next() {
		var s models.PostStats
		err := rows.Scan(&s.ID, &s.PostID, &s.Views, &s.Likes, &s.Comments, &s.Shares, &s.Saves,
			&s.Reach, &s.Impressions, &s.EngagementRate, &s.RecordedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &s)
	}
	return history, rows.Err()
}
