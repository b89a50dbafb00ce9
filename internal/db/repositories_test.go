package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/dailypulse/internal/models"
)

func newRepositoriesForTest(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForTest(t, filepath.Join(t.TempDir(), "dailypulse-repo.db"))
	return NewRepositories(database)
}

func createRepositoryTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserEmailUniqueIndexIsCaseInsensitive(t *testing.T) {
	repos := newRepositoriesForTest(t)
	createRepositoryTestUser(t, repos, "QA-Test2@DailyPulse.Local")

	duplicate := models.User{Email: "qa-test2@dailypulse.local", PasswordHash: "hash-2", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&duplicate); err == nil {
		t.Fatal("expected duplicate normalized email insert to fail")
	}

	exists, err := repos.Users.ExistsByNormalizedEmail("qa-test2@dailypulse.local")
	if err != nil {
		t.Fatalf("exists lookup: %v", err)
	}
	if !exists {
		t.Fatal("expected normalized email lookup to match")
	}
}

func TestDailyEntryRepositoryCRUD(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createRepositoryTestUser(t, repos, "crud@example.com")
	other := createRepositoryTestUser(t, repos, "other@example.com")

	for _, date := range []string{"2026-10-15", "2026-10-17", "2026-10-16"} {
		entry := models.DailyEntry{UserID: user.ID, Date: date, Steps: 1000}
		if err := repos.DailyEntries.Create(&entry); err != nil {
			t.Fatalf("create entry %s: %v", date, err)
		}
		if entry.ID == "" {
			t.Fatal("expected generated entry id")
		}
	}
	foreign := models.DailyEntry{UserID: other.ID, Date: "2026-10-18"}
	if err := repos.DailyEntries.Create(&foreign); err != nil {
		t.Fatalf("create foreign entry: %v", err)
	}

	listed, err := repos.DailyEntries.List(user.ID, "date DESC", 2)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(listed) != 2 || listed[0].Date != "2026-10-17" || listed[1].Date != "2026-10-16" {
		t.Fatalf("expected two newest entries, got %#v", listed)
	}

	if _, found, err := repos.DailyEntries.FindByID(user.ID, foreign.ID); err != nil || found {
		t.Fatalf("expected foreign entry to be invisible, found=%v err=%v", found, err)
	}

	entry, found, err := repos.DailyEntries.FindByDate(user.ID, "2026-10-16")
	if err != nil || !found {
		t.Fatalf("find by date: found=%v err=%v", found, err)
	}
	entry.Steps = 4321
	if err := repos.DailyEntries.Save(&entry); err != nil {
		t.Fatalf("save entry: %v", err)
	}
	reloaded, found, err := repos.DailyEntries.FindByID(user.ID, entry.ID)
	if err != nil || !found || reloaded.Steps != 4321 {
		t.Fatalf("expected updated steps, got %#v found=%v err=%v", reloaded, found, err)
	}

	deleted, err := repos.DailyEntries.Delete(user.ID, entry.ID)
	if err != nil || !deleted {
		t.Fatalf("delete entry: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repos.DailyEntries.Delete(user.ID, entry.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report nothing removed, deleted=%v err=%v", deleted, err)
	}
}

func TestAppendBadgeIfAbsentAddsOnlyOnce(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createRepositoryTestUser(t, repos, "badge@example.com")
	badge := models.Badge{Type: models.BadgeSevenDayStreak, EarnedDate: "2026-10-19", Metric: models.BadgeMetricConsistency}

	added, err := repos.Users.AppendBadgeIfAbsent(user.ID, badge)
	if err != nil || !added {
		t.Fatalf("first append: added=%v err=%v", added, err)
	}
	added, err = repos.Users.AppendBadgeIfAbsent(user.ID, badge)
	if err != nil || added {
		t.Fatalf("second append: added=%v err=%v", added, err)
	}

	reloaded, err := repos.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(reloaded.Badges) != 1 || reloaded.Badges[0] != badge {
		t.Fatalf("expected exactly one badge, got %#v", reloaded.Badges)
	}
}

func TestUpdateByIDStoresGoals(t *testing.T) {
	repos := newRepositoriesForTest(t)
	user := createRepositoryTestUser(t, repos, "goals@example.com")

	if err := repos.Users.UpdateByID(user.ID, map[string]any{"sleep_goal": 7.5, "steps_goal": 12000}); err != nil {
		t.Fatalf("update goals: %v", err)
	}
	reloaded, err := repos.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.SleepGoal == nil || *reloaded.SleepGoal != 7.5 {
		t.Fatalf("expected sleep goal 7.5, got %v", reloaded.SleepGoal)
	}
	if reloaded.StepsGoal == nil || *reloaded.StepsGoal != 12000 {
		t.Fatalf("expected steps goal 12000, got %v", reloaded.StepsGoal)
	}
	if reloaded.WaterGoal != nil {
		t.Fatalf("expected water goal to stay unset, got %v", *reloaded.WaterGoal)
	}
}
