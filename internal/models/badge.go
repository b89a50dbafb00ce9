package models

const (
	BadgeSevenDayStreak    = "7_day_streak"
	BadgeMetricConsistency = "consistency"
)

type Badge struct {
	Type       string `json:"type"`
	EarnedDate string `json:"earned_date"`
	Metric     string `json:"metric"`
}
