package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/dailypulse/internal/services"
)

func TestGetInsightsAggregatesWindow(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "insights@example.com")

	saveDay(t, app, authCookie, "2026-10-19", map[string]any{"sleep": 9, "water": 8, "steps": 8000, "exercise": 30})
	saveDay(t, app, authCookie, "2026-10-18", map[string]any{"sleep": 9, "water": 2, "steps": 12000, "exercise": 10})
	saveDay(t, app, authCookie, "2026-10-17", map[string]any{"sleep": 5, "steps": 12000})
	saveDay(t, app, authCookie, "2026-09-01", map[string]any{"sleep": 9, "steps": 30000})

	response := sendJSON(t, app, http.MethodGet, "/api/insights?window=7", nil, authCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected insights status 200, got %d", response.StatusCode)
	}
	insights := services.Insights{}
	decodeJSONBody(t, response, &insights)

	if insights.Window != 7 || insights.ReferenceDate != "2026-10-19" {
		t.Fatalf("unexpected window header %d %q", insights.Window, insights.ReferenceDate)
	}
	if insights.EntryCount != 3 {
		t.Fatalf("expected three windowed entries, got %d", insights.EntryCount)
	}
	if insights.Highlights.CurrentStreak != 2 {
		t.Fatalf("expected sleep streak 2, got %d", insights.Highlights.CurrentStreak)
	}
	if insights.Highlights.BestDay == nil || insights.Highlights.BestDay.Steps != 12000 {
		t.Fatalf("unexpected best day %#v", insights.Highlights.BestDay)
	}
	if insights.Highlights.GoalsMetThisWeek != 2 {
		t.Fatalf("expected two days with at least two goals met, got %d", insights.Highlights.GoalsMetThisWeek)
	}
	sleepSeries := insights.Series[services.MetricSleep]
	if len(sleepSeries) != 3 || sleepSeries[0].Date != "2026-10-17" {
		t.Fatalf("expected ascending sleep series, got %#v", sleepSeries)
	}
	if len(insights.Stacked) != 3 {
		t.Fatalf("expected three stacked points, got %d", len(insights.Stacked))
	}
}

func TestGetInsightsRejectsUnknownWindow(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "window@example.com")

	response := sendJSON(t, app, http.MethodGet, "/api/insights?window=10", nil, authCookie)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}

	empty := sendJSON(t, app, http.MethodGet, "/api/insights", nil, authCookie)
	if empty.StatusCode != http.StatusOK {
		t.Fatalf("expected default window status 200, got %d", empty.StatusCode)
	}
	insights := services.Insights{}
	decodeJSONBody(t, empty, &insights)
	if insights.Window != services.DefaultInsightsWindow || insights.Highlights.BestDay != nil {
		t.Fatalf("expected empty default window, got %#v", insights)
	}
}

func TestGetCalendarMarksStatusAndToday(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "calendar@example.com")

	saveDay(t, app, authCookie, "2026-10-05", map[string]any{"sleep": 8, "water": 8, "steps": 10000})

	response := sendJSON(t, app, http.MethodGet, "/api/calendar?month=2026-10", nil, authCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected calendar status 200, got %d", response.StatusCode)
	}
	month := services.CalendarMonth{}
	decodeJSONBody(t, response, &month)
	if month.Month != "2026-10" || len(month.Days)%7 != 0 {
		t.Fatalf("unexpected calendar grid %q with %d days", month.Month, len(month.Days))
	}

	var logged, today *services.CalendarDayState
	for index := range month.Days {
		switch month.Days[index].Date {
		case "2026-10-05":
			logged = &month.Days[index]
		case "2026-10-19":
			today = &month.Days[index]
		}
	}
	if logged == nil || logged.Status != services.CalendarStatusHigh || logged.EntryID == "" {
		t.Fatalf("expected high status for logged day, got %#v", logged)
	}
	if today == nil || !today.IsToday || today.Status != services.CalendarStatusNone {
		t.Fatalf("expected empty today cell, got %#v", today)
	}

	invalid := sendJSON(t, app, http.MethodGet, "/api/calendar?month=October", nil, authCookie)
	if invalid.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected invalid month status 400, got %d", invalid.StatusCode)
	}
}
