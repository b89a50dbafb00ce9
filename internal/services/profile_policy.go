package services

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	maxDisplayNameLength = 64
	maxSleepGoal         = 24
	maxWaterGoal         = 100
	maxStepsGoal         = 200000
	maxExerciseGoal      = 1440
)

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrInvalidGoal        = errors.New("invalid goal")
)

func NormalizeDisplayName(raw string) (string, error) {
	displayName := strings.TrimSpace(raw)
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return "", ErrDisplayNameTooLong
	}
	return displayName, nil
}

func ValidateSleepGoal(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 || value > maxSleepGoal {
		return ErrInvalidGoal
	}
	return nil
}

func validateIntGoal(value int, max int) error {
	if value <= 0 || value > max {
		return ErrInvalidGoal
	}
	return nil
}

// BuildProfileUpdates validates the set fields of update and returns the
// column changes to persist.
func BuildProfileUpdates(update ProfileUpdate) (map[string]any, error) {
	updates := make(map[string]any)

	if update.DisplayName != nil {
		displayName, err := NormalizeDisplayName(*update.DisplayName)
		if err != nil {
			return nil, err
		}
		updates["display_name"] = displayName
	}
	if update.SleepGoal != nil {
		if err := ValidateSleepGoal(*update.SleepGoal); err != nil {
			return nil, err
		}
		updates["sleep_goal"] = *update.SleepGoal
	}
	if update.WaterGoal != nil {
		if err := validateIntGoal(*update.WaterGoal, maxWaterGoal); err != nil {
			return nil, err
		}
		updates["water_goal"] = *update.WaterGoal
	}
	if update.StepsGoal != nil {
		if err := validateIntGoal(*update.StepsGoal, maxStepsGoal); err != nil {
			return nil, err
		}
		updates["steps_goal"] = *update.StepsGoal
	}
	if update.ExerciseGoal != nil {
		if err := validateIntGoal(*update.ExerciseGoal, maxExerciseGoal); err != nil {
			return nil, err
		}
		updates["exercise_goal"] = *update.ExerciseGoal
	}
	return updates, nil
}
