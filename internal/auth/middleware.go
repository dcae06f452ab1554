package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LocalsUserID is the fiber.Locals key holding the authenticated user id.
const LocalsUserID = "user_id"

// RequireSession creates Fiber middleware that rejects requests without a valid session.
// The authenticated user id is stored in fiber.Locals under LocalsUserID.
func RequireSession(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookieName := authService.CookieName()

		userID, err := authService.Authenticate(c.Cookies(cookieName))

		switch {
		case errors.Is(err, ErrUnauthenticated):
			log.Debug().Err(err).Str("ip", c.IP()).Msg("request without valid session")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid " + cookieName + " cookie"})
		case err != nil:
			log.Error().Err(err).Msg("failed to authenticate session")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}

		c.Locals(LocalsUserID, userID)

		return c.Next()
	}
}

// UserID returns the id RequireSession stored for this request.
func UserID(c *fiber.Ctx) (uint64, bool) {
	userID, ok := c.Locals(LocalsUserID).(uint64)

	return userID, ok && userID != 0
}
