package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
)

type PublishService interface {
	Publish(ctx context.Context, postID int64) error
}

type publishService struct {
	pr      repository.PostRepository
	users   UserService
	threads ThreadsService
	now     func() time.Time
}

func NewPublishService(pr repository.PostRepository, users UserService, threads ThreadsService) PublishService {
	return &publishService{
		pr:      pr,
		users:   users,
		threads: threads,
		now:     time.Now,
	}
}

// Publish pushes a due post to Threads and records the outcome on the post.
// Posts that were deleted or are no longer scheduled are skipped.
func (s *publishService) Publish(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("skipping missing post", "post_id", postID)
			return nil
		}
		return storeError(err, ErrPostNotFound)
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("skipping post that is no longer scheduled", "post_id", postID, "status", post.Status)
		return nil
	}

	threadsUserID, token, err := s.users.ThreadsCredentials(ctx, post.UserID)
	if err != nil {
		// store trouble leaves the post scheduled for the next poll
		if !errors.Is(err, ErrValidation) && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		return s.fail(ctx, postID, err)
	}

	threadID, err := s.threads.Publish(ctx, threadsUserID, token, PostText(post))
	if err != nil {
		return s.fail(ctx, postID, err)
	}

	if _, err := s.pr.SetStatus(ctx, postID, models.PostStatusPublished, nil, s.now()); err != nil {
		slog.Error("post published but its status was not saved; it may be published again",
			"post_id", postID, "thread_id", threadID, "err", err)
		return storeError(err, ErrPostNotFound)
	}
	slog.Info("post published", "post_id", postID, "thread_id", threadID)
	return nil
}

func (s *publishService) fail(ctx context.Context, postID int64, cause error) error {
	message := cause.Error()
	slog.Info("post publishing failed", "post_id", postID, "err", message)
	if _, err := s.pr.SetStatus(ctx, postID, models.PostStatusFailed, &message, s.now()); err != nil {
		return storeError(err, ErrPostNotFound)
	}
	return nil
}

// PostText renders the text sent to Threads: the content followed by a blank
// line and the hashtags.
func PostText(post *models.Post) string {
	if len(post.Hashtags) == 0 {
		return post.Content
	}
	tags := make([]string, len(post.Hashtags))
	for i, name := range post.Hashtags {
		tags[i] = "#" + name
	}
	return post.Content + "\n\n" + strings.Join(tags, " ")
}
