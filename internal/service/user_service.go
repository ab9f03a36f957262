package service

import (
	"context"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	LinkThreads(ctx context.Context, userID int64, link *transfer.ThreadsLink) (*models.User, error)
	ThreadsCredentials(ctx context.Context, userID int64) (string, string, error)
}

type userService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewUserService(cfg config.Config, u repository.UserRepository) UserService {
	return &userService{
		cfg: cfg,
		u:   u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound)
	}

	if !isExist {
		slog.Info("user not found", "user_id", id)
		return nil, ErrUserNotFound
	}

	return user, nil
}

// LinkThreads stores the Threads account of a user. The access token is
// encrypted before it reaches the store.
func (s *userService) LinkThreads(ctx context.Context, userID int64, link *transfer.ThreadsLink) (*models.User, error) {
	if link == nil {
		return nil, invalid("request body is required")
	}
	link.ThreadsUserID = strings.TrimSpace(link.ThreadsUserID)
	link.AccessToken = strings.TrimSpace(link.AccessToken)
	if err := utils.ValidateStruct(link); err != nil {
		return nil, invalid("%s", err.Error())
	}

	encrypted, err := utils.Encrypt([]byte(link.AccessToken), utils.EncryptionKey(s.cfg.SecretKey))
	if err != nil {
		return nil, ErrUnexpected
	}

	if err := s.u.SetThreadsToken(ctx, userID, link.ThreadsUserID, encrypted); err != nil {
		return nil, storeError(err, ErrUserNotFound)
	}
	return s.GetUserInfo(ctx, userID)
}

// ThreadsCredentials returns the linked Threads user id and the decrypted
// access token.
func (s *userService) ThreadsCredentials(ctx context.Context, userID int64) (string, string, error) {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if user.ThreadsUserID == nil || user.ThreadsAccessToken == nil {
		return "", "", invalid("user %d has no linked Threads account", userID)
	}

	token, err := utils.Decrypt(*user.ThreadsAccessToken, utils.EncryptionKey(s.cfg.SecretKey))
	if err != nil {
		return "", "", ErrUnexpected
	}
	return *user.ThreadsUserID, token, nil
}
