package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	secret := strings.TrimSpace(options.SecretKey)
	if secret == "" {
		return nil, errors.New("secret key is required")
	}

	codec, err := newSecureCookieCodec([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("init cookie codec: %w", err)
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: options.CookieSecure,
		listLimit:    options.EntryListLimit,
		logger:       logger,
		now:          now,
		cookieCodec:  codec,
		loginLimiter: newAttemptLimiter(),
	}
	return handler.withDependencies(database), nil
}

// today is the reference date for windows, streaks and badges.
func (handler *Handler) today() time.Time {
	return handler.now().In(handler.location)
}
