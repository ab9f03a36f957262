package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

type ApiKeyService interface {
	Create(ctx context.Context, actor Actor, req *transfer.ApiKeyCreation) (*models.ApiKey, error)
	List(ctx context.Context, actor Actor) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, actor Actor, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, actor Actor, req *transfer.ApiKeyCreation) (*models.ApiKey, error) {
	if !actor.CanWrite() {
		return nil, ErrForbidden
	}
	if req == nil {
		req = &transfer.ApiKeyCreation{}
	}
	req.Label = strings.TrimSpace(req.Label)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid("%s", err.Error())
	}

	keys, err := s.k.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, ErrApiKeyNotFound)
	}
	if len(keys) >= models.MaxApiKeysPerUser {
		slog.Info("api key limit reached", "user_id", actor.UserID)
		return nil, invalid("only %d API keys can be created", models.MaxApiKeysPerUser)
	}

	key, err := utils.GenerateRandomKey(24)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrUnexpected
	}

	apiKey := &models.ApiKey{
		UserID: actor.UserID,
		Label:  req.Label,
		ApiKey: key,
	}
	id, err := s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, storeErrorKinds(err, ErrApiKeyNotFound, ErrApiKeyExists)
	}
	apiKey.ID = id
	return apiKey, nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	if apiKey == "" {
		return 0, ErrUnauthorized
	}
	userID, isExist, err := s.k.GetUserIDByKey(ctx, apiKey)
	if err != nil {
		return 0, storeError(err, ErrUnauthorized)
	}
	if !isExist {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, actor Actor) ([]*models.ApiKey, error) {
	if !actor.CanRead() {
		return nil, ErrForbidden
	}
	apiKeys, err := s.k.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, storeError(err, ErrApiKeyNotFound)
	}
	if apiKeys == nil {
		apiKeys = []*models.ApiKey{}
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, actor Actor, keyID int64) error {
	if !actor.CanWrite() {
		return ErrForbidden
	}
	if keyID <= 0 {
		return invalid("key id is not valid")
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, actor.UserID)
	if err != nil {
		return storeError(err, ErrApiKeyNotFound)
	}
	if !isValid {
		return ErrApiKeyNotFound
	}

	if err := s.k.Remove(ctx, keyID); err != nil {
		return storeError(err, ErrApiKeyNotFound)
	}
	return nil
}
