package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/dailypulse/internal/models"
	"github.com/terraincognita07/dailypulse/internal/services"
)

func TestSaveDayUpdatesInsteadOfDuplicating(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "days@example.com")

	first := saveDay(t, app, authCookie, "2026-10-18", map[string]any{"sleep": 7, "steps": 4000, "note": "first"})
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected first save status 201, got %d", first.StatusCode)
	}
	created := saveDayResponse{}
	decodeJSONBody(t, first, &created)
	if !created.Created {
		t.Fatal("expected first save to create the entry")
	}

	second := saveDay(t, app, authCookie, "2026-10-18", map[string]any{"sleep": 8, "steps": 6000})
	if second.StatusCode != http.StatusOK {
		t.Fatalf("expected re-save status 200, got %d", second.StatusCode)
	}
	updated := saveDayResponse{}
	decodeJSONBody(t, second, &updated)
	if updated.Created || updated.Entry.ID != created.Entry.ID {
		t.Fatalf("expected the same entry to be overwritten, got %#v", updated)
	}
	if updated.Entry.Note != "" || updated.Entry.Steps != 6000 {
		t.Fatalf("expected full overwrite of fields, got %#v", updated.Entry)
	}

	list := sendJSON(t, app, http.MethodGet, "/api/entries", nil, authCookie)
	entries := []models.DailyEntry{}
	decodeJSONBody(t, list, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(entries))
	}
}

func TestSaveDayUsesPathDate(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "path-date@example.com")

	response := saveDay(t, app, authCookie, "2026-10-17", map[string]any{"date": "2026-01-01", "water": 2})
	payload := saveDayResponse{}
	decodeJSONBody(t, response, &payload)
	if payload.Entry.Date != "2026-10-17" {
		t.Fatalf("expected path date to win, got %q", payload.Entry.Date)
	}

	invalid := saveDay(t, app, authCookie, "2026-13-40", map[string]any{})
	if invalid.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected invalid date status 400, got %d", invalid.StatusCode)
	}
}

func TestGetDayOffersQuickFillFromPreviousDay(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "quickfill@example.com")

	saveDay(t, app, authCookie, "2026-10-18", map[string]any{"sleep": 6.5, "water": 5, "steps": 7000, "note": "tired"})

	response := sendJSON(t, app, http.MethodGet, "/api/days/2026-10-19", nil, authCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected day status 200, got %d", response.StatusCode)
	}
	view := services.DayView{}
	decodeJSONBody(t, response, &view)
	if view.Entry != nil {
		t.Fatalf("expected no entry for today, got %#v", view.Entry)
	}
	if view.QuickFill == nil {
		t.Fatal("expected quick fill from the previous day")
	}
	if view.QuickFill.Steps != 7000 || view.QuickFill.Date != "2026-10-19" || view.QuickFill.Note != "" {
		t.Fatalf("unexpected quick fill %#v", view.QuickFill)
	}

	existing := sendJSON(t, app, http.MethodGet, "/api/days/2026-10-18", nil, authCookie)
	view = services.DayView{}
	decodeJSONBody(t, existing, &view)
	if view.Entry == nil || view.QuickFill != nil {
		t.Fatalf("expected stored entry without quick fill, got %#v", view)
	}
}

func TestSevenConsecutiveDaysAwardBadgeOnce(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "streak@example.com")

	dates := []string{"2026-10-13", "2026-10-14", "2026-10-15", "2026-10-16", "2026-10-17", "2026-10-18", "2026-10-19"}
	for index, date := range dates {
		response := saveDay(t, app, authCookie, date, map[string]any{"sleep": 8})
		payload := saveDayResponse{}
		decodeJSONBody(t, response, &payload)
		wantAwarded := index == len(dates)-1
		if payload.BadgeAwarded != wantAwarded {
			t.Fatalf("%s: expected badge_awarded=%v, got %v", date, wantAwarded, payload.BadgeAwarded)
		}
	}

	again := saveDay(t, app, authCookie, "2026-10-19", map[string]any{"sleep": 9})
	payload := saveDayResponse{}
	decodeJSONBody(t, again, &payload)
	if payload.BadgeAwarded {
		t.Fatal("expected badge to be awarded only once")
	}

	me := sendJSON(t, app, http.MethodGet, "/api/me", nil, authCookie)
	user := models.User{}
	decodeJSONBody(t, me, &user)
	if len(user.Badges) != 1 {
		t.Fatalf("expected exactly one badge, got %#v", user.Badges)
	}
	badge := user.Badges[0]
	if badge.Type != models.BadgeSevenDayStreak || badge.Metric != models.BadgeMetricConsistency || badge.EarnedDate != "2026-10-19" {
		t.Fatalf("unexpected badge %#v", badge)
	}
}

func TestGapInRecentDaysDoesNotAwardBadge(t *testing.T) {
	app, _ := newTestApp(t)
	authCookie := registerAndAuthCookie(t, app, "gap@example.com")

	for _, date := range []string{"2026-10-11", "2026-10-12", "2026-10-13", "2026-10-15", "2026-10-16", "2026-10-17", "2026-10-18"} {
		response := saveDay(t, app, authCookie, date, map[string]any{"sleep": 8})
		payload := saveDayResponse{}
		decodeJSONBody(t, response, &payload)
		if payload.BadgeAwarded {
			t.Fatalf("%s: expected no badge with a gap in the last seven entries", date)
		}
	}
}
