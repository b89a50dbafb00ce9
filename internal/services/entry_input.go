package services

import (
	"errors"
	"math"
	"strings"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const (
	MaxEntryNoteLength = 2000
	MaxSleepHours      = 24
	MaxWaterGlasses    = 100
	MaxDailySteps      = 200000
	MaxDailyMinutes    = 1440
)

var ErrInvalidEntryValue = errors.New("invalid entry value")

// EntryInput is a complete set of entry fields.
type EntryInput struct {
	Date     string  `json:"date"`
	Sleep    float64 `json:"sleep"`
	Water    int     `json:"water"`
	Steps    int     `json:"steps"`
	Study    int     `json:"study"`
	Leisure  int     `json:"leisure"`
	Exercise int     `json:"exercise"`
	Note     string  `json:"note"`
}

// EntryPatch carries only the fields to change; nil fields keep their value.
type EntryPatch struct {
	Date     *string  `json:"date"`
	Sleep    *float64 `json:"sleep"`
	Water    *int     `json:"water"`
	Steps    *int     `json:"steps"`
	Study    *int     `json:"study"`
	Leisure  *int     `json:"leisure"`
	Exercise *int     `json:"exercise"`
	Note     *string  `json:"note"`
}

func NormalizeEntryInput(input EntryInput) (EntryInput, error) {
	date, err := ParseEntryDate(input.Date, nil)
	if err != nil {
		return input, err
	}
	input.Date = FormatEntryDate(date)

	if math.IsNaN(input.Sleep) || math.IsInf(input.Sleep, 0) || input.Sleep < 0 || input.Sleep > MaxSleepHours {
		return input, ErrInvalidEntryValue
	}
	if !intInRange(input.Water, MaxWaterGlasses) || !intInRange(input.Steps, MaxDailySteps) {
		return input, ErrInvalidEntryValue
	}
	if !intInRange(input.Study, MaxDailyMinutes) || !intInRange(input.Leisure, MaxDailyMinutes) || !intInRange(input.Exercise, MaxDailyMinutes) {
		return input, ErrInvalidEntryValue
	}

	input.Note = TrimEntryNote(input.Note)
	return input, nil
}

// Apply merges the patch over base.
func (patch EntryPatch) Apply(base EntryInput) EntryInput {
	if patch.Date != nil {
		base.Date = *patch.Date
	}
	if patch.Sleep != nil {
		base.Sleep = *patch.Sleep
	}
	if patch.Water != nil {
		base.Water = *patch.Water
	}
	if patch.Steps != nil {
		base.Steps = *patch.Steps
	}
	if patch.Study != nil {
		base.Study = *patch.Study
	}
	if patch.Leisure != nil {
		base.Leisure = *patch.Leisure
	}
	if patch.Exercise != nil {
		base.Exercise = *patch.Exercise
	}
	if patch.Note != nil {
		base.Note = *patch.Note
	}
	return base
}

func EntryInputFromModel(entry models.DailyEntry) EntryInput {
	return EntryInput{
		Date:     entry.Date,
		Sleep:    entry.Sleep,
		Water:    entry.Water,
		Steps:    entry.Steps,
		Study:    entry.Study,
		Leisure:  entry.Leisure,
		Exercise: entry.Exercise,
		Note:     entry.Note,
	}
}

// ApplyEntryInput copies input onto entry and recomputes the derived fields
// against goals.
func ApplyEntryInput(entry *models.DailyEntry, input EntryInput, goals Goals) {
	entry.Date = input.Date
	entry.Sleep = input.Sleep
	entry.Water = input.Water
	entry.Steps = input.Steps
	entry.Study = input.Study
	entry.Leisure = input.Leisure
	entry.Exercise = input.Exercise
	entry.Note = input.Note
	ApplyDerivedFields(entry, goals)
}

func ApplyDerivedFields(entry *models.DailyEntry, goals Goals) {
	entry.TotalActiveMinutes = entry.Study + entry.Leisure + entry.Exercise
	waterGoal := goals.Water
	if waterGoal <= 0 {
		waterGoal = models.DefaultWaterGoal
	}
	entry.HydrationPercent = float64(entry.Water) / float64(waterGoal) * 100
}

func TrimEntryNote(value string) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= MaxEntryNoteLength {
		return value
	}
	return string(runes[:MaxEntryNoteLength])
}

func intInRange(value int, max int) bool {
	return value >= 0 && value <= max
}
