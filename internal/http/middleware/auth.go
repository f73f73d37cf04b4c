package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/model"
	"filevault/internal/service"
)

const (
	// IdentityLocalKey holds the *model.Identity of an authenticated caller.
	IdentityLocalKey = "identity"
	// AccessTokenLocalKey holds the raw bearer token the caller presented.
	AccessTokenLocalKey = "access_token"
)

// Identifier resolves a bearer token to its holder.
type Identifier interface {
	Identify(ctx context.Context, accessToken string) (*model.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// otherwise stores the caller identity and token in context locals.
func RequireAuth(idf Identifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		id, err := idf.Identify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
			}
			return err
		}
		c.Locals(IdentityLocalKey, id)
		c.Locals(AccessTokenLocalKey, token)
		return c.Next()
	}
}

// BearerToken extracts the credentials of an "Authorization: Bearer" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *fiber.Ctx) (*model.Identity, bool) {
	id, ok := c.Locals(IdentityLocalKey).(*model.Identity)
	return id, ok && id != nil
}

// AccessTokenFrom returns the bearer token stored by RequireAuth.
func AccessTokenFrom(c *fiber.Ctx) string {
	tok, _ := c.Locals(AccessTokenLocalKey).(string)
	return tok
}
