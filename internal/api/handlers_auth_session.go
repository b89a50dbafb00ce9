package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}
	if strings.TrimSpace(credentials.Next) == "" {
		credentials.Next = c.Query("next")
	}
	return credentials, nil
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Register(credentials.Email, credentials.Password, credentials.DisplayName, handler.now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		case errors.Is(err, services.ErrDisplayNameTooLong):
			return apiError(c, fiber.StatusBadRequest, "display name too long")
		case errors.Is(err, services.ErrAuthEmailExists):
			return apiError(c, fiber.StatusConflict, "email already exists")
		default:
			handler.logger.Error("register failed", zap.Error(err))
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	token, err := handler.setAuthCookie(c, &user, true)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	handler.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":     user,
		"token":    token,
		"redirect": sanitizeRedirectPath(credentials.Next, "/"),
	})
}

// Login authenticates and redirects to next, the loginWithRedirect contract.
// Failed attempts are limited per client IP.
func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptsLimit, loginAttemptsWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials, err := parseCredentials(c)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptsWindow)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.addFailure(limiterKey, now, loginAttemptsWindow)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.logger.Error("login failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to load user")
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.setAuthCookie(c, &user, credentials.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	redirect := sanitizeRedirectPath(credentials.Next, "/")
	if user.MustChangePassword {
		redirect = "/api/settings/change-password"
	}
	return c.JSON(fiber.Map{
		"ok":                   true,
		"token":                token,
		"redirect":             redirect,
		"must_change_password": user.MustChangePassword,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true, "redirect": "/login"})
}

// LoginInfo answers the redirect target of unauthenticated page requests.
func (handler *Handler) LoginInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"login": "/api/auth/login",
		"next":  sanitizeRedirectPath(c.Query("next"), "/"),
	})
}
