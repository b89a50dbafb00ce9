package api

import (
	"time"

	"github.com/terraincognita07/dailypulse/internal/db"
	"github.com/terraincognita07/dailypulse/internal/models"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	listLimit    int
	logger       *zap.Logger
	now          func() time.Time
	cookieCodec  *secureCookieCodec
	loginLimiter *attemptLimiter

	repositories    *db.Repositories
	authService     *services.AuthService
	entryService    *services.EntryService
	insightsService *services.InsightsService
	badgeService    *services.BadgeService
	profileService  *services.ProfileService
	exportService   *services.ExportService
}

// Options configures a Handler. Zero values fall back to defaults.
type Options struct {
	SecretKey      string
	Location       *time.Location
	CookieSecure   bool
	EntryListLimit int
	Logger         *zap.Logger
	Now            func() time.Time
}

type credentialsInput struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"display_name" form:"display_name"`
	RememberMe  bool   `json:"remember_me" form:"remember_me"`
	Next        string `json:"next" form:"next"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type goalsInput struct {
	SleepGoal    *float64 `json:"sleep_goal"`
	WaterGoal    *int     `json:"water_goal"`
	StepsGoal    *int     `json:"steps_goal"`
	ExerciseGoal *int     `json:"exercise_goal"`
}

type saveDayResponse struct {
	Entry        models.DailyEntry `json:"entry"`
	Created      bool              `json:"created"`
	BadgeAwarded bool              `json:"badge_awarded"`
}

const (
	authCookieName       = "dailypulse_auth"
	contextUserKey       = "current_user"
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)
