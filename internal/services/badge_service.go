package services

import (
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const streakBadgeDays = 7

type BadgeEntryLister interface {
	List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error)
}

type BadgeUserRepository interface {
	AppendBadgeIfAbsent(userID uint, badge models.Badge) (bool, error)
}

type BadgeService struct {
	entries BadgeEntryLister
	users   BadgeUserRepository
}

func NewBadgeService(entries BadgeEntryLister, users BadgeUserRepository) *BadgeService {
	return &BadgeService{
		entries: entries,
		users:   users,
	}
}

// CheckStreakBadge awards the seven-day streak badge once the seven most recent
// entries cover seven consecutive calendar days. The append is conditional in
// storage, so concurrent checks award it at most once.
func (service *BadgeService) CheckStreakBadge(user *models.User, today time.Time, location *time.Location) (bool, error) {
	if user == nil || user.HasBadge(models.BadgeSevenDayStreak) {
		return false, nil
	}

	recent, err := service.entries.List(user.ID, "date DESC", streakBadgeDays)
	if err != nil {
		return false, err
	}
	if !HasConsecutiveDays(recent, streakBadgeDays, location) {
		return false, nil
	}

	badge := models.Badge{
		Type:       models.BadgeSevenDayStreak,
		EarnedDate: FormatEntryDate(DateAtLocation(today, location)),
		Metric:     models.BadgeMetricConsistency,
	}
	awarded, err := service.users.AppendBadgeIfAbsent(user.ID, badge)
	if err != nil {
		return false, err
	}
	if awarded {
		user.Badges = append(user.Badges, badge)
	}
	return awarded, nil
}

// HasConsecutiveDays reports whether entries, sorted newest first, hold at
// least days entries whose first days dates step back one calendar day each.
func HasConsecutiveDays(entries []models.DailyEntry, days int, location *time.Location) bool {
	if days <= 0 || len(entries) < days {
		return false
	}

	previous, ok := entries[0].Day(location)
	if !ok {
		return false
	}
	for _, entry := range entries[1:days] {
		current, ok := entry.Day(location)
		if !ok {
			return false
		}
		if FormatEntryDate(previous.AddDate(0, 0, -1)) != FormatEntryDate(current) {
			return false
		}
		previous = current
	}
	return true
}
