package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const (
	DefaultEntryListLimit = 100
	MaxEntryListLimit     = 1000
	DefaultEntrySort      = "-date"
)

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidSortSpec   = errors.New("invalid sort spec")
	ErrInvalidListLimit  = errors.New("invalid list limit")
	ErrEntryLoadFailed   = errors.New("load entry failed")
	ErrEntryCreateFailed = errors.New("create entry failed")
	ErrEntryUpdateFailed = errors.New("update entry failed")
	ErrEntryDeleteFailed = errors.New("delete entry failed")
)

var entrySortClauses = map[string]string{
	"date":        "date ASC",
	"-date":       "date DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

type DailyEntryRepository interface {
	List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error)
	ListInDateRange(userID uint, from string, to string) ([]models.DailyEntry, error)
	FindByID(userID uint, entryID string) (models.DailyEntry, bool, error)
	FindByDate(userID uint, date string) (models.DailyEntry, bool, error)
	Create(entry *models.DailyEntry) error
	Save(entry *models.DailyEntry) error
	Delete(userID uint, entryID string) (bool, error)
}

type EntryService struct {
	entries DailyEntryRepository
}

// DayView is the editor state for one date. QuickFill is set only when the
// date has no entry and the previous day does.
type DayView struct {
	Date      string             `json:"date"`
	Entry     *models.DailyEntry `json:"entry"`
	QuickFill *EntryInput        `json:"quick_fill"`
}

func NewEntryService(entries DailyEntryRepository) *EntryService {
	return &EntryService{entries: entries}
}

// ResolveSortClause maps a sort spec such as "-date" to an order clause.
func ResolveSortClause(sortSpec string) (string, error) {
	spec := strings.TrimSpace(sortSpec)
	if spec == "" {
		spec = DefaultEntrySort
	}
	clause, ok := entrySortClauses[spec]
	if !ok {
		return "", ErrInvalidSortSpec
	}
	return clause, nil
}

// ResolveListLimit treats zero as the default and rejects values outside
// 1..MaxEntryListLimit.
func ResolveListLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultEntryListLimit, nil
	}
	if limit < 0 || limit > MaxEntryListLimit {
		return 0, ErrInvalidListLimit
	}
	return limit, nil
}

func (service *EntryService) List(userID uint, sortSpec string, limit int) ([]models.DailyEntry, error) {
	clause, err := ResolveSortClause(sortSpec)
	if err != nil {
		return nil, err
	}
	resolvedLimit, err := ResolveListLimit(limit)
	if err != nil {
		return nil, err
	}
	entries, err := service.entries.List(userID, clause, resolvedLimit)
	if err != nil {
		return nil, ErrEntryLoadFailed
	}
	return entries, nil
}

func (service *EntryService) ListInDateRange(userID uint, from time.Time, to time.Time) ([]models.DailyEntry, error) {
	entries, err := service.entries.ListInDateRange(userID, FormatEntryDate(from), FormatEntryDate(to))
	if err != nil {
		return nil, ErrEntryLoadFailed
	}
	return entries, nil
}

func (service *EntryService) Get(userID uint, entryID string) (models.DailyEntry, error) {
	entry, found, err := service.entries.FindByID(userID, strings.TrimSpace(entryID))
	if err != nil {
		return models.DailyEntry{}, ErrEntryLoadFailed
	}
	if !found {
		return models.DailyEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (service *EntryService) Create(userID uint, input EntryInput, goals Goals) (models.DailyEntry, error) {
	normalized, err := NormalizeEntryInput(input)
	if err != nil {
		return models.DailyEntry{}, err
	}

	entry := models.DailyEntry{UserID: userID}
	ApplyEntryInput(&entry, normalized, goals)
	if err := service.entries.Create(&entry); err != nil {
		return models.DailyEntry{}, ErrEntryCreateFailed
	}
	return entry, nil
}

// Update merges patch into the stored entry. Derived fields are recomputed
// with the goals passed in, which are the writer's current goals.
func (service *EntryService) Update(userID uint, entryID string, patch EntryPatch, goals Goals) (models.DailyEntry, error) {
	entry, err := service.Get(userID, entryID)
	if err != nil {
		return models.DailyEntry{}, err
	}

	normalized, err := NormalizeEntryInput(patch.Apply(EntryInputFromModel(entry)))
	if err != nil {
		return models.DailyEntry{}, err
	}

	ApplyEntryInput(&entry, normalized, goals)
	if err := service.entries.Save(&entry); err != nil {
		return models.DailyEntry{}, ErrEntryUpdateFailed
	}
	return entry, nil
}

func (service *EntryService) Delete(userID uint, entryID string) error {
	deleted, err := service.entries.Delete(userID, strings.TrimSpace(entryID))
	if err != nil {
		return ErrEntryDeleteFailed
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}

// SaveForDate overwrites the entry stored for the input date or creates one.
// Concurrent saves for the same date are last-write-wins.
func (service *EntryService) SaveForDate(userID uint, input EntryInput, goals Goals) (models.DailyEntry, bool, error) {
	normalized, err := NormalizeEntryInput(input)
	if err != nil {
		return models.DailyEntry{}, false, err
	}

	entry, found, err := service.entries.FindByDate(userID, normalized.Date)
	if err != nil {
		return models.DailyEntry{}, false, ErrEntryLoadFailed
	}

	if found {
		ApplyEntryInput(&entry, normalized, goals)
		if err := service.entries.Save(&entry); err != nil {
			return models.DailyEntry{}, false, ErrEntryUpdateFailed
		}
		return entry, false, nil
	}

	entry = models.DailyEntry{UserID: userID}
	ApplyEntryInput(&entry, normalized, goals)
	if err := service.entries.Create(&entry); err != nil {
		return models.DailyEntry{}, false, ErrEntryCreateFailed
	}
	return entry, true, nil
}

func (service *EntryService) LoadDay(userID uint, day time.Time) (DayView, error) {
	date := FormatEntryDate(day)
	view := DayView{Date: date}

	entry, found, err := service.entries.FindByDate(userID, date)
	if err != nil {
		return DayView{}, ErrEntryLoadFailed
	}
	if found {
		view.Entry = &entry
		return view, nil
	}

	previous, found, err := service.entries.FindByDate(userID, FormatEntryDate(day.AddDate(0, 0, -1)))
	if err != nil {
		return DayView{}, ErrEntryLoadFailed
	}
	if found {
		quickFill := EntryInputFromModel(previous)
		quickFill.Date = date
		quickFill.Note = ""
		view.QuickFill = &quickFill
	}
	return view, nil
}
