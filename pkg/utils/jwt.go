package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/postdeck/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const TokenIssuer = "postdeck"

func GenerateToken(secretKey string, userID int64, role string, tokenDuration time.Duration) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	now := time.Now()
	claims := transfer.CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signedToken, nil
}

// ValidateToken checks signature, signing method, issuer and expiry before
// returning the claims.
func ValidateToken(secretKey, tokenString string) (*transfer.CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithExpirationRequired())

	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.CustomClaims); ok && token.Valid && claims.UserID > 0 {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
