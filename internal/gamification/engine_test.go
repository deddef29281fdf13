package gamification

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lifequest/internal/domain"

	"github.com/google/uuid"
)

var now = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

func newUser(points int) *domain.User {
	return &domain.User{ID: uuid.New(), Points: points}
}

func TestPointsFor(t *testing.T) {
	e := NewDefaultEngine()
	zero, custom := 0, 42
	tests := []struct {
		name   string
		action Action
		custom *int
		want   int
	}{
		{"habit", ActionHabitComplete, nil, 20},
		{"task", ActionTaskComplete, nil, 10},
		{"journal", ActionJournalEntry, nil, 15},
		{"streak bonus", ActionStreakBonus, nil, 5},
		{"unknown", Action("nope"), nil, 0},
		{"custom", ActionTaskComplete, &custom, 42},
		{"custom zero is honoured", ActionHabitComplete, &zero, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.PointsFor(tt.action, tt.custom); got != tt.want {
				t.Errorf("PointsFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAwardAndRevokeAreSymmetric(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(130)
	added := e.AwardPoints(u, ActionHabitComplete, nil)
	if added != 20 || u.Points != 150 {
		t.Fatalf("after award points = %d (added %d)", u.Points, added)
	}
	if removed := e.RevokePoints(u, added); removed != 20 || u.Points != 130 {
		t.Fatalf("after revoke points = %d (removed %d)", u.Points, removed)
	}
}

func TestRevokeNeverGoesNegative(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(5)
	if removed := e.RevokePoints(u, 20); removed != 5 || u.Points != 0 {
		t.Fatalf("points = %d, removed = %d", u.Points, removed)
	}
}

func TestHabitStreakBadges(t *testing.T) {
	e := NewDefaultEngine()
	tests := []struct {
		value int
		want  string
	}{
		{1, "First Steps"},
		{7, "1 Week Warrior"},
		{30, "1 Month Master"},
		{100, "100 Day Hero"},
	}
	for _, tt := range tests {
		u := newUser(0)
		got := e.CheckBadges(u, TriggerHabitStreak, tt.value, now)
		if len(got) != 1 || got[0].Name != tt.want {
			t.Errorf("streak %d: got %+v, want %s", tt.value, got, tt.want)
		}
	}

	u := newUser(0)
	if got := e.CheckBadges(u, TriggerHabitStreak, 8, now); len(got) != 0 {
		t.Errorf("streak 8 unlocked %+v", got)
	}
}

func TestCountBadges(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(0)
	if got := e.CheckBadges(u, TriggerTaskCount, 49, now); len(got) != 0 {
		t.Fatalf("49 tasks unlocked %+v", got)
	}
	if got := e.CheckBadges(u, TriggerTaskCount, 50, now); len(got) != 1 || got[0].Name != "Task Master" {
		t.Fatalf("50 tasks = %+v", got)
	}
	if got := e.CheckBadges(u, TriggerJournalCount, 30, now); len(got) != 1 || got[0].Name != "Journal Writer" {
		t.Fatalf("30 journals = %+v", got)
	}
}

func TestCheckBadgesIsIdempotent(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(0)
	e.CheckBadges(u, TriggerHabitStreak, 7, now)
	second := e.CheckBadges(u, TriggerHabitStreak, 7, now)
	if len(second) != 0 {
		t.Fatalf("second call unlocked %+v", second)
	}
	names := map[string]int{}
	for _, b := range u.Badges {
		names[b.Name]++
	}
	for name, n := range names {
		if n > 1 {
			t.Fatalf("badge %q held %d times", name, n)
		}
	}
}

func TestPointsCrossingThousand(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(980)
	e.AwardPoints(u, ActionHabitComplete, nil)
	got := e.CheckBadges(u, TriggerPoints, 0, now)
	if len(got) != 1 || got[0].Name != "1K Collector" {
		t.Fatalf("got %+v, want exactly 1K Collector", got)
	}
	if got[0].UserID != u.ID || !got[0].EarnedAt.Equal(now) {
		t.Fatalf("badge not stamped: %+v", got[0])
	}
}

func TestPointsBothThresholdsInOneCall(t *testing.T) {
	e := NewDefaultEngine()
	u := newUser(900)
	big := 4200
	e.AwardPoints(u, ActionTaskComplete, &big)
	got := e.CheckBadges(u, TriggerPoints, 0, now)
	if len(got) != 2 || got[0].Name != "1K Collector" || got[1].Name != "5K Collector" {
		t.Fatalf("got %+v", got)
	}
}

func TestEngineCopiesRules(t *testing.T) {
	rules := DefaultRules()
	e, err := NewEngine(rules)
	if err != nil {
		t.Fatal(err)
	}
	rules.Points[ActionHabitComplete] = 999
	rules.Badges[TriggerTaskCount][0].Name = "Changed"
	if e.PointsFor(ActionHabitComplete, nil) != 20 {
		t.Fatal("engine saw mutated points")
	}
	if e.Rules().Badges[TriggerTaskCount][0].Name != "Task Master" {
		t.Fatal("engine saw mutated badge rule")
	}
}

func TestNewEngineRejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Badges[TriggerTaskCount] = append(rules.Badges[TriggerTaskCount], BadgeRule{
		Threshold: 10, Match: MatchExact, Name: "First Steps",
	})
	if _, err := NewEngine(rules); err == nil {
		t.Fatal("duplicate badge name accepted")
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	content := `
points:
  habit_complete: 25
badges:
  task_count:
    - threshold: 10
      match: at_least
      name: Getting Things Done
      description: Complete 10 tasks
      icon: "📋"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules.Points[ActionHabitComplete] != 25 || rules.Points[ActionJournalEntry] != 15 {
		t.Fatalf("points = %+v", rules.Points)
	}
	if len(rules.Badges[TriggerTaskCount]) != 1 || rules.Badges[TriggerTaskCount][0].Name != "Getting Things Done" {
		t.Fatalf("task rules = %+v", rules.Badges[TriggerTaskCount])
	}
	if len(rules.Badges[TriggerHabitStreak]) != 4 {
		t.Fatalf("habit rules should keep defaults, got %d", len(rules.Badges[TriggerHabitStreak]))
	}

	e, err := NewEngine(rules)
	if err != nil {
		t.Fatal(err)
	}
	u := newUser(0)
	if got := e.CheckBadges(u, TriggerTaskCount, 12, now); len(got) != 1 {
		t.Fatalf("at_least rule did not unlock: %+v", got)
	}
}

func TestLoadRulesUnknownTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	content := "badges:\n  login_count:\n    - {threshold: 1, match: exact, name: Hello}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("unknown trigger accepted")
	}
}
