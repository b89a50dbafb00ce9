package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

const exportFilenamePrefix = "daily-pulse-"

var ExportCSVHeaders = []string{
	"Date",
	"Sleep (h)",
	"Water (glasses)",
	"Steps",
	"Study (m)",
	"Leisure (m)",
	"Exercise (m)",
	"Note",
}

type ExportEntryReader interface {
	List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error)
}

type ExportService struct {
	entries ExportEntryReader
	limit   int
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

type ExportResult struct {
	Filename string
	Content  []byte
	Summary  ExportSummary
}

func NewExportService(entries ExportEntryReader, limit int) *ExportService {
	if limit <= 0 {
		limit = DefaultEntryListLimit
	}
	return &ExportService{
		entries: entries,
		limit:   limit,
	}
}

// ExportWindowCSV serializes the entries of the window ending on now. The
// window is taken from the same most-recent listing the insights view uses.
func (service *ExportService) ExportWindowCSV(userID uint, windowDays int, now time.Time, location *time.Location) (ExportResult, error) {
	entries, err := service.entries.List(userID, "date DESC", service.limit)
	if err != nil {
		return ExportResult{}, ErrEntryLoadFailed
	}

	windowed := FilterWindow(entries, windowDays, now, location)
	return ExportResult{
		Filename: ExportFilename(now, location),
		Content:  []byte(BuildCSV(windowed)),
		Summary:  BuildExportSummary(windowed),
	}, nil
}

func ExportFilename(now time.Time, location *time.Location) string {
	return exportFilenamePrefix + FormatEntryDate(DateAtLocation(now, location)) + ".csv"
}

// BuildCSV renders entries in the given order. The note column is always
// quoted; the remaining columns never need quoting.
func BuildCSV(entries []models.DailyEntry) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, strings.Join(ExportCSVHeaders, ","))
	for _, entry := range entries {
		lines = append(lines, strings.Join(exportCSVColumns(entry), ","))
	}
	return strings.Join(lines, "\n")
}

func exportCSVColumns(entry models.DailyEntry) []string {
	return []string{
		entry.Date,
		strconv.FormatFloat(entry.Sleep, 'f', -1, 64),
		strconv.Itoa(entry.Water),
		strconv.Itoa(entry.Steps),
		strconv.Itoa(entry.Study),
		strconv.Itoa(entry.Leisure),
		strconv.Itoa(entry.Exercise),
		quoteCSVField(entry.Note),
	}
}

func quoteCSVField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func BuildExportSummary(entries []models.DailyEntry) ExportSummary {
	if len(entries) == 0 {
		return ExportSummary{}
	}

	first := entries[0].Date
	last := entries[0].Date
	for _, entry := range entries[1:] {
		if entry.Date < first {
			first = entry.Date
		}
		if entry.Date > last {
			last = entry.Date
		}
	}

	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     first,
		DateTo:       last,
	}
}
