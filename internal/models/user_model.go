package models

import "time"

type User struct {
	ID                 int64      `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	Username           string     `db:"username" json:"username"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	DisplayName        string     `db:"display_name" json:"display_name"`
	Role               string     `db:"role" json:"role"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"last_login_at"`
	ThreadsUserID      *string    `db:"threads_user_id" json:"threads_user_id"`
	ThreadsAccessToken *string    `db:"threads_access_token" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at" json:"-"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleDemo  = "demo"
	RoleGuest = "guest"
)
