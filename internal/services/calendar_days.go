package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const calendarMonthLayout = "2006-01"

var ErrInvalidCalendarMonth = errors.New("invalid calendar month")

type CalendarDayState struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	InMonth bool   `json:"in_month"`
	IsToday bool   `json:"is_today"`
	Status  string `json:"status"`
	EntryID string `json:"entry_id,omitempty"`
}

type CalendarMonth struct {
	Month string             `json:"month"`
	Prev  string             `json:"prev"`
	Next  string             `json:"next"`
	Days  []CalendarDayState `json:"days"`
}

// ParseCalendarMonth accepts YYYY-MM. An empty value selects the month of now.
func ParseCalendarMonth(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		today := DateAtLocation(now, location)
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, location), nil
	}
	parsed, err := time.ParseInLocation(calendarMonthLayout, trimmed, location)
	if err != nil {
		return time.Time{}, ErrInvalidCalendarMonth
	}
	return parsed, nil
}

// CalendarGridRange returns the first and last dates of the Sunday-started
// grid that covers the month.
func CalendarGridRange(monthStart time.Time) (time.Time, time.Time) {
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	return gridStart, gridEnd
}

func BuildCalendarMonth(monthStart time.Time, entries []models.DailyEntry, goals Goals, now time.Time, location *time.Location) CalendarMonth {
	gridStart, gridEnd := CalendarGridRange(monthStart)

	latestByDate := make(map[string]models.DailyEntry, len(entries))
	for _, entry := range entries {
		existing, exists := latestByDate[entry.Date]
		if !exists || !entry.UpdatedAt.Before(existing.UpdatedAt) {
			latestByDate[entry.Date] = entry
		}
	}

	todayKey := FormatEntryDate(DateAtLocation(now, location))

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := FormatEntryDate(day)
		state := CalendarDayState{
			Date:    key,
			Day:     day.Day(),
			InMonth: day.Month() == monthStart.Month(),
			IsToday: key == todayKey,
			Status:  CalendarStatusNone,
		}
		if entry, ok := latestByDate[key]; ok {
			state.Status = CalendarStatus(&entry, goals)
			state.EntryID = entry.ID
		}
		days = append(days, state)
	}

	return CalendarMonth{
		Month: monthStart.Format(calendarMonthLayout),
		Prev:  monthStart.AddDate(0, -1, 0).Format(calendarMonthLayout),
		Next:  monthStart.AddDate(0, 1, 0).Format(calendarMonthLayout),
		Days:  days,
	}
}
