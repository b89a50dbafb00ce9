package services

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const (
	MetricSleep    = "sleep"
	MetricWater    = "water"
	MetricSteps    = "steps"
	MetricExercise = "exercise"

	DefaultInsightsWindow = 7
	stackedSeriesMaxDays  = 7
	goalsMetThreshold     = 2
)

var ErrInvalidWindow = errors.New("invalid window")

var SeriesMetrics = []string{MetricSleep, MetricWater, MetricSteps, MetricExercise}

var allowedWindows = map[int]struct{}{7: {}, 14: {}, 30: {}}

type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type SeriesDelta struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

type StackedPoint struct {
	Label    string `json:"label"`
	Date     string `json:"date"`
	Study    int    `json:"study"`
	Leisure  int    `json:"leisure"`
	Exercise int    `json:"exercise"`
}

type BestDay struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

type Highlights struct {
	BestDay          *BestDay `json:"best_day"`
	WeeklyAvgSteps   float64  `json:"weekly_avg_steps"`
	CurrentStreak    int      `json:"current_streak"`
	GoalsMetThisWeek int      `json:"goals_met_this_week"`
}

type Averages struct {
	Sleep    float64 `json:"sleep"`
	Water    float64 `json:"water"`
	Exercise float64 `json:"exercise"`
}

// Gauges holds each average as a percentage of its goal, capped at 100.
type Gauges struct {
	Sleep    float64 `json:"sleep"`
	Water    float64 `json:"water"`
	Exercise float64 `json:"exercise"`
}

type Insights struct {
	Window        int                      `json:"window"`
	ReferenceDate string                   `json:"reference_date"`
	EntryCount    int                      `json:"entry_count"`
	Goals         Goals                    `json:"goals"`
	Series        map[string][]SeriesPoint `json:"series"`
	Deltas        map[string]SeriesDelta   `json:"deltas"`
	Stacked       []StackedPoint           `json:"stacked"`
	Highlights    Highlights               `json:"highlights"`
	Averages      Averages                 `json:"averages"`
	Gauges        Gauges                   `json:"gauges"`
}

// ParseWindow accepts "7", "14" or "30". An empty value selects the default.
func ParseWindow(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultInsightsWindow, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, ErrInvalidWindow
	}
	if _, ok := allowedWindows[value]; !ok {
		return 0, ErrInvalidWindow
	}
	return value, nil
}

// FilterWindow keeps entries dated on or after today minus windowDays. Input
// order is preserved and entries with malformed dates are dropped.
func FilterWindow(entries []models.DailyEntry, windowDays int, today time.Time, location *time.Location) []models.DailyEntry {
	if location == nil {
		location = time.UTC
	}
	cutoff := DateAtLocation(today, location).AddDate(0, 0, -windowDays)

	windowed := make([]models.DailyEntry, 0, len(entries))
	for _, entry := range entries {
		day, ok := entry.Day(location)
		if !ok || day.Before(cutoff) {
			continue
		}
		windowed = append(windowed, entry)
	}
	return windowed
}

func sortedByDateAscending(entries []models.DailyEntry) []models.DailyEntry {
	sorted := make([]models.DailyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

func sortedByDateDescending(entries []models.DailyEntry) []models.DailyEntry {
	sorted := make([]models.DailyEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

func metricValue(entry models.DailyEntry, metric string) float64 {
	switch metric {
	case MetricSleep:
		return entry.Sleep
	case MetricWater:
		return float64(entry.Water)
	case MetricSteps:
		return float64(entry.Steps)
	case MetricExercise:
		return float64(entry.Exercise)
	default:
		return 0
	}
}

func MetricSeries(windowed []models.DailyEntry, metric string) []SeriesPoint {
	sorted := sortedByDateAscending(windowed)
	points := make([]SeriesPoint, 0, len(sorted))
	for _, entry := range sorted {
		points = append(points, SeriesPoint{Date: entry.Date, Value: metricValue(entry, metric)})
	}
	return points
}

// Delta compares the last two points of a series. Fewer than two points give
// a zero delta against the single available value.
func Delta(points []SeriesPoint) SeriesDelta {
	if len(points) == 0 {
		return SeriesDelta{}
	}
	current := points[len(points)-1].Value
	if len(points) == 1 {
		return SeriesDelta{Current: current}
	}
	previous := points[len(points)-2].Value
	delta := SeriesDelta{
		Current:  current,
		Previous: previous,
		Change:   current - previous,
	}
	if previous != 0 {
		delta.ChangePercent = delta.Change / previous * 100
	}
	return delta
}

// StackedSeries returns the last seven windowed entries by date with their
// study, leisure and exercise minutes.
func StackedSeries(windowed []models.DailyEntry, location *time.Location) []StackedPoint {
	sorted := sortedByDateAscending(windowed)
	if len(sorted) > stackedSeriesMaxDays {
		sorted = sorted[len(sorted)-stackedSeriesMaxDays:]
	}

	points := make([]StackedPoint, 0, len(sorted))
	for _, entry := range sorted {
		label := ""
		if day, ok := entry.Day(location); ok {
			label = day.Weekday().String()[:3]
		}
		points = append(points, StackedPoint{
			Label:    label,
			Date:     entry.Date,
			Study:    entry.Study,
			Leisure:  entry.Leisure,
			Exercise: entry.Exercise,
		})
	}
	return points
}

func FindBestDay(windowed []models.DailyEntry) *BestDay {
	if len(windowed) == 0 {
		return nil
	}
	best := windowed[0]
	for _, entry := range windowed[1:] {
		if entry.Steps > best.Steps {
			best = entry
		}
	}
	return &BestDay{Date: best.Date, Steps: best.Steps}
}

// CurrentSleepStreak counts the most recent entries, newest first, whose sleep
// reaches sleepGoal. It stops at the first miss and does not look for gaps
// between dates.
func CurrentSleepStreak(entries []models.DailyEntry, sleepGoal float64) int {
	streak := 0
	for _, entry := range sortedByDateDescending(entries) {
		if entry.Sleep < sleepGoal {
			break
		}
		streak++
	}
	return streak
}

func CountGoalsMetDays(windowed []models.DailyEntry, goals Goals) int {
	count := 0
	for _, entry := range windowed {
		if goals.MetCount(entry) >= goalsMetThreshold {
			count++
		}
	}
	return count
}

func BuildHighlights(entries []models.DailyEntry, windowed []models.DailyEntry, goals Goals) Highlights {
	highlights := Highlights{
		BestDay:          FindBestDay(windowed),
		CurrentStreak:    CurrentSleepStreak(entries, goals.Sleep),
		GoalsMetThisWeek: CountGoalsMetDays(windowed, goals),
	}
	if len(windowed) > 0 {
		totalSteps := 0
		for _, entry := range windowed {
			totalSteps += entry.Steps
		}
		highlights.WeeklyAvgSteps = float64(totalSteps) / float64(len(windowed))
	}
	return highlights
}

func BuildAverages(windowed []models.DailyEntry) Averages {
	if len(windowed) == 0 {
		return Averages{}
	}
	var sleep float64
	water, exercise := 0, 0
	for _, entry := range windowed {
		sleep += entry.Sleep
		water += entry.Water
		exercise += entry.Exercise
	}
	count := float64(len(windowed))
	return Averages{
		Sleep:    sleep / count,
		Water:    float64(water) / count,
		Exercise: float64(exercise) / count,
	}
}

func gaugePercent(value float64, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	percent := value / goal * 100
	if percent > 100 {
		return 100
	}
	return percent
}

func BuildGauges(averages Averages, goals Goals) Gauges {
	return Gauges{
		Sleep:    gaugePercent(averages.Sleep, goals.Sleep),
		Water:    gaugePercent(averages.Water, float64(goals.Water)),
		Exercise: gaugePercent(averages.Exercise, float64(goals.Exercise)),
	}
}

// BuildInsights aggregates entries for the window ending on today. entries is
// the full listed collection; the streak is computed over all of it.
func BuildInsights(entries []models.DailyEntry, windowDays int, goals Goals, today time.Time, location *time.Location) Insights {
	if location == nil {
		location = time.UTC
	}
	windowed := FilterWindow(entries, windowDays, today, location)

	series := make(map[string][]SeriesPoint, len(SeriesMetrics))
	deltas := make(map[string]SeriesDelta, len(SeriesMetrics))
	for _, metric := range SeriesMetrics {
		points := MetricSeries(windowed, metric)
		series[metric] = points
		deltas[metric] = Delta(points)
	}

	averages := BuildAverages(windowed)
	return Insights{
		Window:        windowDays,
		ReferenceDate: FormatEntryDate(DateAtLocation(today, location)),
		EntryCount:    len(windowed),
		Goals:         goals,
		Series:        series,
		Deltas:        deltas,
		Stacked:       StackedSeries(windowed, location),
		Highlights:    BuildHighlights(entries, windowed, goals),
		Averages:      averages,
		Gauges:        BuildGauges(averages, goals),
	}
}

type ProfileStats struct {
	TotalDays  int     `json:"total_days"`
	TotalSteps int     `json:"total_steps"`
	AvgSleep   float64 `json:"avg_sleep"`
}

func BuildProfileStats(entries []models.DailyEntry) ProfileStats {
	stats := ProfileStats{TotalDays: len(entries)}
	var sleep float64
	for _, entry := range entries {
		stats.TotalSteps += entry.Steps
		sleep += entry.Sleep
	}
	divisor := stats.TotalDays
	if divisor < 1 {
		divisor = 1
	}
	stats.AvgSleep = sleep / float64(divisor)
	return stats
}
