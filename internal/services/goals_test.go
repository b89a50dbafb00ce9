package services

import (
	"testing"

	"github.com/terraincognita07/dailypulse/internal/models"
)

func TestResolveGoalsAppliesFallbacks(t *testing.T) {
	sleep := 7.5
	zeroWater := 0
	negativeSteps := -10
	exercise := 45

	user := &models.User{
		SleepGoal:    &sleep,
		WaterGoal:    &zeroWater,
		StepsGoal:    &negativeSteps,
		ExerciseGoal: &exercise,
	}

	goals := ResolveGoals(user)
	if goals.Sleep != 7.5 {
		t.Fatalf("expected sleep goal 7.5, got %v", goals.Sleep)
	}
	if goals.Water != models.DefaultWaterGoal {
		t.Fatalf("expected water fallback, got %d", goals.Water)
	}
	if goals.Steps != models.DefaultStepsGoal {
		t.Fatalf("expected steps fallback, got %d", goals.Steps)
	}
	if goals.Exercise != 45 {
		t.Fatalf("expected exercise goal 45, got %d", goals.Exercise)
	}

	if ResolveGoals(nil) != DefaultGoals() {
		t.Fatal("expected defaults for nil user")
	}
}

func TestCalendarStatusThresholds(t *testing.T) {
	goals := DefaultGoals()

	tests := []struct {
		name  string
		entry *models.DailyEntry
		want  string
	}{
		{name: "no entry", entry: nil, want: CalendarStatusNone},
		{name: "nothing met", entry: &models.DailyEntry{Sleep: 5}, want: CalendarStatusNone},
		{name: "one met", entry: &models.DailyEntry{Sleep: 8}, want: CalendarStatusLow},
		{name: "two met", entry: &models.DailyEntry{Sleep: 8, Water: 8}, want: CalendarStatusMedium},
		{name: "three met", entry: &models.DailyEntry{Sleep: 8, Water: 8, Steps: 10000}, want: CalendarStatusHigh},
		{name: "all met", entry: &models.DailyEntry{Sleep: 9, Water: 10, Steps: 12000, Exercise: 30}, want: CalendarStatusHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarStatus(tt.entry, goals); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
