package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

var ErrInvalidEntryDate = errors.New("invalid entry date")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// ParseEntryDate accepts YYYY-MM-DD and returns the date at midnight in location.
func ParseEntryDate(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidEntryDate
	}
	return parsed, nil
}

func FormatEntryDate(value time.Time) string {
	return value.Format(models.DateLayout)
}

func PreviousEntryDate(date string, location *time.Location) (string, error) {
	day, err := ParseEntryDate(date, location)
	if err != nil {
		return "", err
	}
	return FormatEntryDate(day.AddDate(0, 0, -1)), nil
}
