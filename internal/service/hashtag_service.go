package service

import (
	"context"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
)

const (
	DefaultPopularLimit = 20
	MaxPopularLimit     = 100
)

type HashtagService interface {
	Popular(ctx context.Context, actor Actor, limit int) ([]*models.Hashtag, error)
}

type hashtagService struct {
	hr repository.HashtagRepository
}

func NewHashtagService(hr repository.HashtagRepository) HashtagService {
	return &hashtagService{hr: hr}
}

func (s *hashtagService) Popular(ctx context.Context, actor Actor, limit int) ([]*models.Hashtag, error) {
	if !actor.CanRead() {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	hashtags, err := s.hr.Popular(ctx, limit)
	if err != nil {
		return nil, storeError(err, ErrUnexpected)
	}
	if hashtags == nil {
		hashtags = []*models.Hashtag{}
	}
	return hashtags, nil
}
