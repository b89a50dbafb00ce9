package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type DailyEntry struct {
	ID                 string    `gorm:"primaryKey;type:text" json:"id"`
	UserID             uint      `gorm:"not null;index:idx_daily_entries_user_date" json:"-"`
	Date               string    `gorm:"not null;index:idx_daily_entries_user_date" json:"date"`
	Sleep              float64   `gorm:"not null;default:0" json:"sleep"`
	Water              int       `gorm:"not null;default:0" json:"water"`
	Steps              int       `gorm:"not null;default:0" json:"steps"`
	Study              int       `gorm:"not null;default:0" json:"study"`
	Leisure            int       `gorm:"not null;default:0" json:"leisure"`
	Exercise           int       `gorm:"not null;default:0" json:"exercise"`
	TotalActiveMinutes int       `gorm:"not null;default:0" json:"total_active_minutes"`
	HydrationPercent   float64   `gorm:"not null;default:0" json:"hydration_percent"`
	Note               string    `gorm:"not null;default:''" json:"note"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (entry *DailyEntry) BeforeCreate(*gorm.DB) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return nil
}

// Day parses the entry date. ok is false for malformed dates.
func (entry DailyEntry) Day(location *time.Location) (time.Time, bool) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(DateLayout, entry.Date, location)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
