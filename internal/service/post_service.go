package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

const StatusAll = "all"

var listableStatuses = map[string]bool{
	models.PostStatusDraft:     true,
	models.PostStatusScheduled: true,
	models.PostStatusPublished: true,
	models.PostStatusFailed:    true,
}

type PostService interface {
	List(ctx context.Context, actor Actor, status string, limit int) ([]*models.Post, error)
	PostInfo(ctx context.Context, actor Actor, postID int64) (*models.Post, error)
	CreatePost(ctx context.Context, actor Actor, pc *transfer.PostCreation) (*models.Post, error)
	Update(ctx context.Context, actor Actor, postID int64, pu *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, actor Actor, postID int64) error
	Duplicate(ctx context.Context, actor Actor, postID int64) (*models.Post, error)
	Due(ctx context.Context, actor Actor) ([]*models.Post, error)
	SetStatus(ctx context.Context, actor Actor, postID int64, su *transfer.StatusUpdate) (*models.Post, error)
}

type postService struct {
	pr  repository.PostRepository
	now func() time.Time
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{
		pr:  pr,
		now: time.Now,
	}
}

func (s *postService) List(ctx context.Context, actor Actor, status string, limit int) ([]*models.Post, error) {
	if !actor.CanRead() {
		return nil, ErrForbidden
	}
	if status == StatusAll {
		status = ""
	}
	if status != "" && !listableStatuses[status] {
		return nil, invalid("unknown status %q", status)
	}
	if limit < 0 {
		return nil, invalid("limit must not be negative")
	}

	filter := models.PostFilter{Status: status, Limit: limit}
	if !actor.IsAdmin() {
		filter.UserID = &actor.UserID
	}

	posts, err := s.pr.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, actor Actor, postID int64) (*models.Post, error) {
	if !actor.CanRead() {
		return nil, ErrForbidden
	}
	return s.visible(ctx, actor, postID)
}

// visible loads a post the actor may see. Posts of other users are reported
// as missing.
func (s *postService) visible(ctx context.Context, actor Actor, postID int64) (*models.Post, error) {
	if postID <= 0 {
		return nil, ErrPostNotFound
	}
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	if !actor.owns(post.UserID) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) CreatePost(ctx context.Context, actor Actor, pc *transfer.PostCreation) (*models.Post, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if pc == nil {
		return nil, invalid("request body is required")
	}
	if err := utils.ValidateStruct(pc); err != nil {
		return nil, invalid("%s", err.Error())
	}
	hashtags := models.NormalizeHashtags(pc.Hashtags)
	if err := checkHashtags(hashtags); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      actor.UserID,
		Title:       pc.Title,
		Content:     pc.Content,
		Status:      pc.Status,
		ScheduledAt: pc.ScheduledAt,
	}
	created, err := s.pr.Create(ctx, post, hashtags)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return created, nil
}

func (s *postService) Update(ctx context.Context, actor Actor, postID int64, pu *transfer.PostUpdate) (*models.Post, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if pu == nil {
		return nil, invalid("request body is required")
	}
	if err := utils.ValidateStruct(pu); err != nil {
		return nil, invalid("%s", err.Error())
	}

	if _, err := s.visible(ctx, actor, postID); err != nil {
		return nil, err
	}

	patch := &models.PostPatch{
		Title:       pu.Title,
		Content:     pu.Content,
		Status:      pu.Status,
		ScheduledAt: pu.ScheduledAt,
	}
	if pu.Hashtags != nil {
		hashtags := models.NormalizeHashtags(*pu.Hashtags)
		if err := checkHashtags(hashtags); err != nil {
			return nil, err
		}
		patch.Hashtags = &hashtags
	}

	updated, err := s.pr.Update(ctx, postID, patch)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return updated, nil
}

func (s *postService) Remove(ctx context.Context, actor Actor, postID int64) error {
	if !actor.CanWrite() {
		return ErrForbidden
	}
	if _, err := s.visible(ctx, actor, postID); err != nil {
		return err
	}
	if err := s.pr.SoftDelete(ctx, postID); err != nil {
		return storeError(err, ErrPostNotFound)
	}
	return nil
}

func (s *postService) Duplicate(ctx context.Context, actor Actor, postID int64) (*models.Post, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if _, err := s.visible(ctx, actor, postID); err != nil {
		return nil, err
	}
	duplicate, err := s.pr.Duplicate(ctx, postID, actor.UserID)
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return duplicate, nil
}

func (s *postService) Due(ctx context.Context, actor Actor) ([]*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	posts, err := s.pr.GetDue(ctx, s.now())
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *postService) SetStatus(ctx context.Context, actor Actor, postID int64, su *transfer.StatusUpdate) (*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if su == nil {
		return nil, invalid("request body is required")
	}
	if err := utils.ValidateStruct(su); err != nil {
		return nil, invalid("%s", err.Error())
	}

	post, err := s.pr.SetStatus(ctx, postID, su.Status, su.ErrorMessage, s.now())
	if err != nil {
		return nil, storeError(err, ErrPostNotFound)
	}
	return post, nil
}

func checkHashtags(names []string) error {
	for _, name := range names {
		if utf8.RuneCountInString(name) > models.MaxHashtagLength {
			return invalid("hashtag %q exceeds %d characters", name, models.MaxHashtagLength)
		}
	}
	return nil
}
