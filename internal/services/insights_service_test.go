package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

func TestInsightsServiceBuildUsesUserGoalsAndListLimit(t *testing.T) {
	repo := &stubDailyEntryRepository{entries: []models.DailyEntry{
		{UserID: 1, Date: "2026-10-19", Sleep: 7},
		{UserID: 1, Date: "2026-10-18", Sleep: 7},
		{UserID: 1, Date: "2026-10-17", Sleep: 5},
	}}
	service := NewInsightsService(repo, 50)
	sleepGoal := 6.5
	user := &models.User{ID: 1, SleepGoal: &sleepGoal}

	insights, err := service.Build(user, 7, time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if repo.lastOrder != "date DESC" || repo.lastLimit != 50 {
		t.Fatalf("unexpected listing %q/%d", repo.lastOrder, repo.lastLimit)
	}
	if insights.Highlights.CurrentStreak != 2 {
		t.Fatalf("expected streak 2 with custom goal, got %d", insights.Highlights.CurrentStreak)
	}
	if insights.EntryCount != 3 || insights.Goals.Sleep != 6.5 {
		t.Fatalf("unexpected insights %#v", insights)
	}
}

func TestInsightsServiceCalendarMonthLoadsGridRange(t *testing.T) {
	repo := &stubDailyEntryRepository{entries: []models.DailyEntry{
		{ID: "a", UserID: 1, Date: "2026-09-27", Sleep: 9, Water: 9, Steps: 11000},
		{ID: "b", UserID: 1, Date: "2026-09-26", Sleep: 9},
	}}
	service := NewInsightsService(repo, 0)
	monthStart := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	month, err := service.CalendarMonth(&models.User{ID: 1}, monthStart, monthStart, time.UTC)
	if err != nil {
		t.Fatalf("CalendarMonth() unexpected error: %v", err)
	}
	leading := findCalendarDayStateByDate(t, month.Days, "2026-09-27")
	if leading.InMonth || leading.Status != CalendarStatusHigh || leading.EntryID != "a" {
		t.Fatalf("unexpected leading day %#v", leading)
	}
	for _, day := range month.Days {
		if day.Date == "2026-09-26" {
			t.Fatal("expected grid to start on 2026-09-27")
		}
	}
}

type failingInsightsReader struct{}

func (failingInsightsReader) List(uint, string, int) ([]models.DailyEntry, error) {
	return nil, errors.New("io")
}

func (failingInsightsReader) ListInDateRange(uint, string, string) ([]models.DailyEntry, error) {
	return nil, errors.New("io")
}

func TestInsightsServiceMapsStorageErrors(t *testing.T) {
	service := NewInsightsService(failingInsightsReader{}, 0)
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	if _, err := service.Build(&models.User{ID: 1}, 7, now, time.UTC); !errors.Is(err, ErrEntryLoadFailed) {
		t.Fatalf("expected ErrEntryLoadFailed, got %v", err)
	}
	if _, err := service.CalendarMonth(&models.User{ID: 1}, now, now, time.UTC); !errors.Is(err, ErrEntryLoadFailed) {
		t.Fatalf("expected ErrEntryLoadFailed, got %v", err)
	}
}
