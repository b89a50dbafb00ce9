package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/dailypulse/internal/models"
)

var (
	errMissingAuthToken = errors.New("missing auth token")
	errInvalidAuthToken = errors.New("invalid token")
)

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// requestAuthToken reads the session token from an Authorization bearer
// header when one is sent and from the sealed auth cookie otherwise. A bearer
// request never falls back to the cookie, matching the csrf exemption for
// bearer clients.
func (handler *Handler) requestAuthToken(c *fiber.Ctx) (string, error) {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errInvalidAuthToken
		}
		return token, nil
	}

	rawCookie := strings.TrimSpace(c.Cookies(authCookieName))
	if rawCookie == "" {
		return "", errMissingAuthToken
	}
	if !isSealedCookieValue(rawCookie) {
		return "", errInvalidAuthToken
	}
	plaintext, err := handler.cookieCodec.open(authCookiePurpose, rawCookie)
	if err != nil {
		return "", errInvalidAuthToken
	}
	return string(plaintext), nil
}

func (handler *Handler) parseAuthToken(tokenValue string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(*jwt.Token) (interface{}, error) {
		return handler.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, errInvalidAuthToken
	}
	return claims, nil
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	tokenValue, err := handler.requestAuthToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := handler.parseAuthToken(tokenValue)
	if err != nil {
		return nil, err
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
