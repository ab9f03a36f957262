package service

import (
	"context"
	"strings"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

// templateHashtagSeparator joins template hashtags into their stored form.
const templateHashtagSeparator = ", "

type TemplateService interface {
	List(ctx context.Context, actor Actor) ([]*models.Template, error)
	Create(ctx context.Context, actor Actor, in *transfer.TemplateInput) (*models.Template, error)
	Update(ctx context.Context, actor Actor, id int64, in *transfer.TemplateInput) (*models.Template, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type templateService struct {
	tr repository.TemplateRepository
}

func NewTemplateService(tr repository.TemplateRepository) TemplateService {
	return &templateService{tr: tr}
}

func (s *templateService) List(ctx context.Context, actor Actor) ([]*models.Template, error) {
	if !actor.CanRead() {
		return nil, ErrForbidden
	}
	templates, err := s.tr.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, ErrTemplateNotFound)
	}
	if templates == nil {
		templates = []*models.Template{}
	}
	return templates, nil
}

func (s *templateService) Create(ctx context.Context, actor Actor, in *transfer.TemplateInput) (*models.Template, error) {
	t, err := s.build(actor, in)
	if err != nil {
		return nil, err
	}
	t.UserID = actor.UserID

	created, err := s.tr.Create(ctx, t)
	if err != nil {
		return nil, storeError(err, ErrTemplateNotFound)
	}
	return created, nil
}

func (s *templateService) Update(ctx context.Context, actor Actor, id int64, in *transfer.TemplateInput) (*models.Template, error) {
	t, err := s.build(actor, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	t.ID = id

	updated, err := s.tr.Update(ctx, t)
	if err != nil {
		return nil, storeError(err, ErrTemplateNotFound)
	}
	return updated, nil
}

func (s *templateService) Remove(ctx context.Context, actor Actor, id int64) error {
	if !actor.CanWrite() {
		return ErrForbidden
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.tr.Remove(ctx, id); err != nil {
		return storeError(err, ErrTemplateNotFound)
	}
	return nil
}

func (s *templateService) owned(ctx context.Context, actor Actor, id int64) (*models.Template, error) {
	if id <= 0 {
		return nil, ErrTemplateNotFound
	}
	t, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrTemplateNotFound)
	}
	if t.UserID != actor.UserID {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

func (s *templateService) build(actor Actor, in *transfer.TemplateInput) (*models.Template, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if in == nil {
		return nil, invalid("request body is required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalid("%s", err.Error())
	}
	hashtags := models.NormalizeHashtags(in.Hashtags)
	if err := checkHashtags(hashtags); err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &models.Template{
		Name:     strings.TrimSpace(in.Name),
		Content:  in.Content,
		Hashtags: strings.Join(hashtags, templateHashtagSeparator),
		IsActive: active,
	}, nil
}
