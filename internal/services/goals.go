package services

import "github.com/terraincognita07/dailypulse/internal/models"

const (
	CalendarStatusHigh   = "high"
	CalendarStatusMedium = "medium"
	CalendarStatusLow    = "low"
	CalendarStatusNone   = "none"
)

type Goals struct {
	Sleep    float64 `json:"sleep_goal"`
	Water    int     `json:"water_goal"`
	Steps    int     `json:"steps_goal"`
	Exercise int     `json:"exercise_goal"`
}

func DefaultGoals() Goals {
	return Goals{
		Sleep:    models.DefaultSleepGoal,
		Water:    models.DefaultWaterGoal,
		Steps:    models.DefaultStepsGoal,
		Exercise: models.DefaultExerciseGoal,
	}
}

// ResolveGoals returns the user's goals with the fallback applied to every
// goal that is unset or non-positive.
func ResolveGoals(user *models.User) Goals {
	goals := DefaultGoals()
	if user == nil {
		return goals
	}
	if user.SleepGoal != nil && *user.SleepGoal > 0 {
		goals.Sleep = *user.SleepGoal
	}
	if user.WaterGoal != nil && *user.WaterGoal > 0 {
		goals.Water = *user.WaterGoal
	}
	if user.StepsGoal != nil && *user.StepsGoal > 0 {
		goals.Steps = *user.StepsGoal
	}
	if user.ExerciseGoal != nil && *user.ExerciseGoal > 0 {
		goals.Exercise = *user.ExerciseGoal
	}
	return goals
}

// MetCount counts how many of the four tracked goals the entry reaches.
func (goals Goals) MetCount(entry models.DailyEntry) int {
	met := 0
	if entry.Sleep >= goals.Sleep {
		met++
	}
	if entry.Water >= goals.Water {
		met++
	}
	if entry.Steps >= goals.Steps {
		met++
	}
	if entry.Exercise >= goals.Exercise {
		met++
	}
	return met
}

// CalendarStatus classifies a day by goals met. A nil entry means nothing was
// logged for that date.
func CalendarStatus(entry *models.DailyEntry, goals Goals) string {
	if entry == nil {
		return CalendarStatusNone
	}
	switch met := goals.MetCount(*entry); {
	case met >= 3:
		return CalendarStatusHigh
	case met >= 2:
		return CalendarStatusMedium
	case met >= 1:
		return CalendarStatusLow
	default:
		return CalendarStatusNone
	}
}
