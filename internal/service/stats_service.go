package service

import (
	"context"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 365
)

type StatsService interface {
	Record(ctx context.Context, actor Actor, postID int64, sr *transfer.StatsRecord) (*models.PostStats, error)
	Latest(ctx context.Context, actor Actor, postID int64) (*models.PostStats, error)
	History(ctx context.Context, actor Actor, postID int64, limit int) ([]*models.PostStats, error)
}

type statsService struct {
	pr repository.PostRepository
	sr repository.PostStatsRepository
}

func NewStatsService(pr repository.PostRepository, sr repository.PostStatsRepository) StatsService {
	return &statsService{pr: pr, sr: sr}
}

func (s *statsService) post(ctx context.Context, actor Actor, postID int64) error {
	if !actor.CanRead() {
		return ErrForbidden
	}
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return storeError(err, ErrPostNotFound)
	}
	if !actor.owns(post.UserID) {
		return ErrPostNotFound
	}
	return nil
}

func (s *statsService) Record(ctx context.Context, actor Actor, postID int64, sr *transfer.StatsRecord) (*models.PostStats, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if sr == nil {
		return nil, invalid("request body is required")
	}
	if err := utils.ValidateStruct(sr); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if err := s.post(ctx, actor, postID); err != nil {
		return nil, err
	}

	stats, err := s.sr.Record(ctx, &models.PostStats{
		PostID:      postID,
		Views:       sr.Views,
		Likes:       sr.Likes,
		Comments:    sr.Comments,
		Shares:      sr.Shares,
		Saves:       sr.Saves,
		Reach:       sr.Reach,
		Impressions: sr.Impressions,
	})
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return stats, nil
}

func (s *statsService) Latest(ctx context.Context, actor Actor, postID int64) (*models.PostStats, error) {
	if err := s.post(ctx, actor, postID); err != nil {
		return nil, err
	}
	stats, isExist, err := s.sr.Latest(ctx, postID)
	if err != nil {
		return nil, storeError(err, ErrStatsNotFound)
	}
	if !isExist {
		return nil, ErrStatsNotFound
	}
	return stats, nil
}

func (s *statsService) History(ctx context.Context, actor Actor, postID int64, limit int) ([]*models.PostStats, error) {
	if err := s.post(ctx, actor, postID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	history, err := s.sr.History(ctx, postID, limit)
	if err != nil {
		return nil, storeError(err, ErrStatsNotFound)
	}
	if history == nil {
		history = []*models.PostStats{}
	}
	return history, nil
}
