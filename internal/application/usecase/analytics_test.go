package usecase

import (
	"errors"
	"testing"

	"lifequest/internal/domain"
)

func TestResolveDays(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		in      int
		want    int
		wantErr bool
	}{
		{0, 30, false},
		{1, 1, false},
		{365, 365, false},
		{366, 0, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		got, err := f.analytics.ResolveDays(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ResolveDays(%d) = %d, %v", tt.in, got, err)
		}
		if err != nil && !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ResolveDays(%d) error %v is not a validation error", tt.in, err)
		}
	}
}

func TestJournalAnalyticsEmptyDays(t *testing.T) {
	f := newFixture(t)
	if _, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "t", Content: "c", MoodScore: 5}); err != nil {
		t.Fatal(err)
	}

	report, err := f.analytics.Journals(f.ctx, f.user.ID, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.DailyStats) != 30 {
		t.Fatalf("series length = %d, want 30", len(report.DailyStats))
	}
	for _, d := range report.DailyStats[:29] {
		if d.AvgMood != 0 || d.Count != 0 {
			t.Fatalf("empty day %s = %+v", d.Date, d)
		}
	}
	if last := report.DailyStats[29]; last.AvgMood != 5 || last.Count != 1 {
		t.Errorf("today = %+v", last)
	}

	moods, err := f.analytics.MoodStats(f.ctx, f.user.ID, 0)
	if err != nil || len(moods) != 1 || moods[0].Mood != domain.MoodVeryHappy {
		t.Errorf("mood stats = %+v, %v", moods, err)
	}
}

func TestHabitAnalytics(t *testing.T) {
	f := newFixture(t)
	f.newHabit(t, 0, -1)
	f.newHabit(t, -1)

	report, err := f.analytics.Habits(f.ctx, f.user.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if report.DailyStats[0].Percentage != 100 || report.DailyStats[1].Percentage != 50 {
		t.Errorf("daily = %+v", report.DailyStats)
	}
	if report.Summary.ActiveStreaks != 1 {
		t.Errorf("active streaks = %d, want 1", report.Summary.ActiveStreaks)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t, -1, -2)
	if _, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, ""); err != nil {
		t.Fatal(err)
	}
	f.newHabit(t, -1)
	task, err := f.tasks.Create(f.ctx, f.user.ID, CreateTaskInput{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.tasks.Update(f.ctx, f.user.ID, task.ID, UpdateTaskInput{Completed: boolPtr(true)}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "j", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	d, err := f.analytics.Dashboard(f.ctx, f.user.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if d.Overview.TotalHabits != 2 || d.Overview.TotalTasks != 1 || d.Overview.TotalJournals != 1 {
		t.Errorf("overview = %+v", d.Overview)
	}
	if d.Overview.Points != 20+10+15 {
		t.Errorf("points = %d, want 45", d.Overview.Points)
	}
	if d.Today.HabitsCompleted != 1 || d.Today.TotalHabits != 2 || d.Today.HabitCompletionRate != 50 {
		t.Errorf("today = %+v", d.Today)
	}
	if d.Streaks.ActiveStreaks != 1 || d.Streaks.LongestStreak != 3 {
		t.Errorf("streaks = %+v", d.Streaks)
	}
	// Monday was day -3: 2 + 1 seeded completions this week plus today.
	if d.Weekly.HabitsCompleted != 4 || d.Weekly.TasksCompleted != 1 || d.Weekly.JournalEntries != 1 {
		t.Errorf("weekly = %+v", d.Weekly)
	}
	if d.Stats.TotalHabitsCompleted != 1 || d.Stats.TotalTasksCompleted != 1 || d.Stats.TotalJournalEntries != 1 {
		t.Errorf("stats = %+v", d.Stats)
	}
	// A three-day streak unlocks nothing.
	if len(d.RecentBadges) != 0 {
		t.Errorf("recent badges = %v", badgeNames(d.RecentBadges))
	}
}
