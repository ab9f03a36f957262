package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, req *transfer.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *transfer.LoginRequest) (string, *models.User, error)
	Refresh(ctx context.Context, userID int64) (string, *models.User, error)
	Authenticate(ctx context.Context, tokenString string) (Actor, error)
}

// checkPassword is swapped in tests.
var checkPassword = utils.CheckPassword

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// unknownUserHash returns a bcrypt hash to compare against when the email is
// unknown, so both failure paths cost one bcrypt comparison.
func unknownUserHash() string {
	dummyHashOnce.Do(func() {
		hash, err := utils.HashPassword("postdeck-unknown-user")
		if err != nil {
			slog.Error("failed to prepare login hash", "err", err)
			return
		}
		dummyHash = hash
	})
	return dummyHash
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) Register(ctx context.Context, req *transfer.RegisterRequest) (*models.User, error) {
	if req == nil {
		return nil, invalid("request body is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalid("%s", err.Error())
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrUnexpected
	}

	displayName := strings.TrimSpace(req.FullName)
	if displayName == "" {
		displayName = req.Username
	}

	id, err := s.u.Create(ctx, &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, storeErrorKinds(err, ErrUserNotFound, ErrUserExists)
	}

	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound)
	}
	if !isExist {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Login answers every credential failure with ErrInvalidCredentials so a
// caller cannot tell an unknown email from a wrong password.
func (s *authService) Login(ctx context.Context, req *transfer.LoginRequest) (string, *models.User, error) {
	if req == nil {
		return "", nil, invalid("request body is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		return "", nil, invalid("%s", err.Error())
	}

	user, isExist, err := s.u.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, storeError(err, ErrInvalidCredentials)
	}
	if !isExist {
		_ = checkPassword(req.Password, unknownUserHash())
		return "", nil, ErrInvalidCredentials
	}

	if err := checkPassword(req.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, utils.ErrPasswordMismatch) {
			slog.Info(err.Error())
		}
		return "", nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, userID int64) (string, *models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return "", nil, storeError(err, ErrUnauthorized)
	}
	if !isExist {
		return "", nil, ErrUnauthorized
	}
	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user *models.User) (string, *models.User, error) {
	now := time.Now().UTC()
	if err := s.u.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, storeError(err, ErrUnauthorized)
	}
	user.LastLoginAt = &now

	token, err := utils.GenerateToken(s.cfg.SecretKey, user.ID, user.Role, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, ErrUnexpected
	}
	return token, user, nil
}

// Authenticate validates the token and reloads its user, so the role comes
// from the current row and deleted users lose access right away.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (Actor, error) {
	claims, err := utils.ValidateToken(s.cfg.SecretKey, tokenString)
	if err != nil {
		return Actor{}, ErrUnauthorized
	}

	user, isExist, err := s.u.GetByID(ctx, claims.UserID)
	if err != nil {
		return Actor{}, storeError(err, ErrUnauthorized)
	}
	if !isExist {
		return Actor{}, ErrUnauthorized
	}
	return Actor{UserID: user.ID, Role: user.Role}, nil
}
