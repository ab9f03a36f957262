package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postdeck/internal/api/handlers"
	"github.com/maheshrc27/postdeck/internal/service"
)

const ApiKeyHeader = "X-API-Key"

type AuthMiddleware struct {
	auth  service.AuthService
	keys  service.ApiKeyService
	users service.UserService
}

func NewAuthMiddleware(auth service.AuthService, keys service.ApiKeyService, users service.UserService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, keys: keys, users: users}
}

// AuthMiddleware accepts either a bearer JWT or an API key and stores the
// resulting service.Actor in the request locals.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get(ApiKeyHeader)
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))

		var actor service.Actor
		switch {
		case apiKey != "":
			userID, err := m.keys.GetUserID(c.UserContext(), apiKey)
			if err != nil {
				return err
			}
			user, err := m.users.GetUserInfo(c.UserContext(), userID)
			if err != nil {
				return service.ErrUnauthorized
			}
			actor = service.Actor{UserID: user.ID, Role: user.Role}
		case tokenString != "":
			var err error
			actor, err = m.auth.Authenticate(c.UserContext(), tokenString)
			if err != nil {
				return err
			}
		default:
			return service.ErrUnauthorized
		}

		c.Locals(handlers.ActorKey, actor)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
