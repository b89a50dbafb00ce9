package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		handler.logger.Debug("request not authenticated", zap.String("path", c.Path()), zap.Error(err))
		if isAPIPath(c.Path()) {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Redirect(loginRedirectPath(c.OriginalURL()), fiber.StatusSeeOther)
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !allowedDuringPasswordChange(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}

	return c.Next()
}

// allowedDuringPasswordChange lists what a user with a temporary password can
// reach before choosing a new one.
func allowedDuringPasswordChange(path string) bool {
	switch path {
	case "/api/settings/change-password", "/api/auth/logout", "/api/me":
		return true
	default:
		return false
	}
}
