package services

import (
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

type InsightsEntryReader interface {
	List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error)
	ListInDateRange(userID uint, from string, to string) ([]models.DailyEntry, error)
}

type InsightsService struct {
	entries InsightsEntryReader
	limit   int
}

func NewInsightsService(entries InsightsEntryReader, limit int) *InsightsService {
	if limit <= 0 {
		limit = DefaultEntryListLimit
	}
	return &InsightsService{
		entries: entries,
		limit:   limit,
	}
}

// Build aggregates the user's most recent entries, newest first and capped at
// the configured list limit.
func (service *InsightsService) Build(user *models.User, windowDays int, now time.Time, location *time.Location) (Insights, error) {
	entries, err := service.entries.List(user.ID, "date DESC", service.limit)
	if err != nil {
		return Insights{}, ErrEntryLoadFailed
	}
	return BuildInsights(entries, windowDays, ResolveGoals(user), now, location), nil
}

func (service *InsightsService) CalendarMonth(user *models.User, monthStart time.Time, now time.Time, location *time.Location) (CalendarMonth, error) {
	gridStart, gridEnd := CalendarGridRange(monthStart)
	entries, err := service.entries.ListInDateRange(user.ID, FormatEntryDate(gridStart), FormatEntryDate(gridEnd))
	if err != nil {
		return CalendarMonth{}, ErrEntryLoadFailed
	}
	return BuildCalendarMonth(monthStart, entries, ResolveGoals(user), now, location), nil
}
