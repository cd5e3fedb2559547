package middlewares

import (
	"strings"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"

	"github.com/gofiber/fiber/v2"
)

// Authenticate builds the bearer-token middleware for protected routes. The
// token comes from the Authorization header or the legacy x-access-token
// header. Missing token is 401, invalid or expired is 403. On success the
// decoded identity is attached to the request locals.
func Authenticate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {

		token := c.Get("x-access-token")
		if token == "" {
			token = c.Get(fiber.HeaderAuthorization)
		}
		if token == "" {
			return errors.HandleUnauthorizedError(c, "Auth token is not supplied")
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := helpers.ParseToken(secret, token)
		if err != nil {
			return errors.HandleForbiddenError(c, "Token is not valid")
		}

		c.Locals("memberid", claims.MemberID)
		c.Locals("email", claims.Email)
		return c.Next()
	}
}
