package models

import "time"

const (
	DefaultSleepGoal    = 8.0
	DefaultWaterGoal    = 8
	DefaultStepsGoal    = 10000
	DefaultExerciseGoal = 30
)

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	DisplayName        string    `gorm:"not null;default:''" json:"display_name"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"-"`
	SleepGoal          *float64  `json:"sleep_goal"`
	WaterGoal          *int      `json:"water_goal"`
	StepsGoal          *int      `json:"steps_goal"`
	ExerciseGoal       *int      `json:"exercise_goal"`
	Badges             []Badge   `gorm:"serializer:json" json:"badges"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}

// HasBadge reports whether a badge of the given type was already earned.
func (user User) HasBadge(badgeType string) bool {
	for _, badge := range user.Badges {
		if badge.Type == badgeType {
			return true
		}
	}
	return false
}
