package services

import (
	"errors"

	"github.com/terraincognita07/dailypulse/internal/models"
)

var (
	ErrProfileLoadFailed   = errors.New("load profile failed")
	ErrProfileUpdateFailed = errors.New("update profile failed")
)

type ProfileUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
}

type ProfileEntryLister interface {
	List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error)
}

// ProfileUpdate is a partial user update. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName  *string  `json:"display_name"`
	SleepGoal    *float64 `json:"sleep_goal"`
	WaterGoal    *int     `json:"water_goal"`
	StepsGoal    *int     `json:"steps_goal"`
	ExerciseGoal *int     `json:"exercise_goal"`
}

type ProfileSummary struct {
	User   models.User    `json:"user"`
	Goals  Goals          `json:"goals"`
	Stats  ProfileStats   `json:"stats"`
	Badges []models.Badge `json:"badges"`
}

type ProfileService struct {
	users   ProfileUserRepository
	entries ProfileEntryLister
	limit   int
}

func NewProfileService(users ProfileUserRepository, entries ProfileEntryLister, limit int) *ProfileService {
	if limit <= 0 {
		limit = DefaultEntryListLimit
	}
	return &ProfileService{
		users:   users,
		entries: entries,
		limit:   limit,
	}
}

func (service *ProfileService) Me(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, ErrProfileLoadFailed
	}
	if user.Badges == nil {
		user.Badges = []models.Badge{}
	}
	return user, nil
}

func (service *ProfileService) UpdateMyUserData(userID uint, update ProfileUpdate) (models.User, error) {
	updates, err := BuildProfileUpdates(update)
	if err != nil {
		return models.User{}, err
	}
	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, ErrProfileUpdateFailed
	}
	return service.Me(userID)
}

// Summary aggregates the most recent listed entries, the same snapshot the
// insights view works on.
func (service *ProfileService) Summary(userID uint) (ProfileSummary, error) {
	user, err := service.Me(userID)
	if err != nil {
		return ProfileSummary{}, err
	}
	entries, err := service.entries.List(userID, "date DESC", service.limit)
	if err != nil {
		return ProfileSummary{}, ErrEntryLoadFailed
	}
	return ProfileSummary{
		User:   user,
		Goals:  ResolveGoals(&user),
		Stats:  BuildProfileStats(entries),
		Badges: user.Badges,
	}, nil
}
