package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SetThreadsToken(ctx context.Context, id int64, threadsUserID, encryptedToken string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const selectUser = `
	SELECT id, email, username, password_hash, display_name, role, last_login_at,
		threads_user_id, threads_access_token, created_at, updated_at
	FROM users
`

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1 AND deleted_at IS NULL`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*models.User, bool, error) {
	var user models.User
	var lastLogin sql.NullTime
	var threadsUserID, threadsToken sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.DisplayName, &user.Role, &lastLogin, &threadsUserID, &threadsToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	user.LastLoginAt = timePtr(lastLogin)
	user.ThreadsUserID = stringPtr(threadsUserID)
	user.ThreadsAccessToken = stringPtr(threadsToken)
	return &user, true, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, username, password_hash, display_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	now := time.Now().UTC()

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Username, user.PasswordHash, user.DisplayName, role, now, now).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectRows(res)
}

func (r *userRepository) SetThreadsToken(ctx context.Context, id int64, threadsUserID, encryptedToken string) error {
	query := `
		UPDATE users
		SET threads_user_id = $1,
			threads_access_token = $2,
			updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, threadsUserID, encryptedToken, time.Now().UTC(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectRows(res)
}
