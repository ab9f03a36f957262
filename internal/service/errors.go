package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postdeck/internal/repository"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("missing or invalid credentials")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrStatsNotFound      = errors.New("no analytics recorded for post")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrApiKeyNotFound     = errors.New("api key not found")
	ErrUserExists         = errors.New("email or username already in use")
	ErrApiKeyExists       = errors.New("api key already exists")
	ErrConflict           = errors.New("record already exists")
	ErrStore              = errors.New("storage is temporarily unavailable")
	ErrUnexpected         = errors.New("unexpected error")
)

var ErrorMap = map[error]int{
	ErrValidation:         BadRequest,
	ErrInvalidCredentials: Unauthorized,
	ErrUnauthorized:       Unauthorized,
	ErrForbidden:          Forbidden,
	ErrUserNotFound:       NotFound,
	ErrPostNotFound:       NotFound,
	ErrStatsNotFound:      NotFound,
	ErrTemplateNotFound:   NotFound,
	ErrApiKeyNotFound:     NotFound,
	ErrUserExists:         Conflict,
	ErrApiKeyExists:       Conflict,
	ErrConflict:           Conflict,
	ErrStore:              InternalServerError,
	ErrUnexpected:         InternalServerError,
}

// StatusOf returns the HTTP status for err and the sentinel it matched.
// Unknown errors are reported as ErrUnexpected.
func StatusOf(err error) (int, error) {
	for kind, status := range ErrorMap {
		if errors.Is(err, kind) {
			return status, kind
		}
	}
	return InternalServerError, ErrUnexpected
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError translates a repository failure into a service error kind.
func storeError(err error, notFound error) error {
	return storeErrorKinds(err, notFound, ErrConflict)
}

// storeErrorKinds is storeError with the kind reported for unique violations.
func storeErrorKinds(err error, notFound, duplicate error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return duplicate
	default:
		slog.Error("store failure", "err", err)
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
}
