package transfer

import "github.com/golang-jwt/jwt/v5"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"fullName" validate:"max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CustomClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type ThreadsLink struct {
	ThreadsUserID string `json:"threadsUserId" validate:"required,max=64"`
	AccessToken   string `json:"accessToken" validate:"required"`
}

type ApiKeyCreation struct {
	Label string `json:"label" validate:"max=100"`
}
