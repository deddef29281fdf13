package usecase

import (
	"errors"
	"testing"

	"lifequest/internal/domain"

	"github.com/google/uuid"
)

func TestCompleteHabitFirstTime(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t)

	res, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, "felt great")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if res.PointsAwarded != 20 {
		t.Errorf("points awarded = %d, want 20", res.PointsAwarded)
	}
	if res.Habit.CurrentStreak != 1 || res.Habit.BestStreak != 1 || !res.Habit.CompletedToday {
		t.Errorf("habit = streak %d best %d today %v", res.Habit.CurrentStreak, res.Habit.BestStreak, res.Habit.CompletedToday)
	}
	if got := badgeNames(res.NewBadges); !equalStrings(got, []string{"First Steps"}) {
		t.Errorf("new badges = %v", got)
	}

	u := f.reloadUser(t)
	if u.Points != 20 || u.Stats.TotalHabitsCompleted != 1 || u.Stats.LongestStreak != 1 {
		t.Errorf("ledger = %d %+v", u.Points, u.Stats)
	}
	if len(u.Badges) != 1 {
		t.Errorf("persisted badges = %v", badgeNames(u.Badges))
	}

	stored, _ := f.store.Habits.GetByID(f.ctx, f.user.ID, h.ID)
	if stored.CurrentStreak != 1 || len(stored.Completions) != 1 || stored.Completions[0].Note != "felt great" {
		t.Errorf("stored habit = %+v", stored)
	}
}

func TestCompleteHabitTwiceSameDayIsNoop(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t)

	if _, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, ""); err != nil {
		t.Fatal(err)
	}
	res, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, "")
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}

	if res.PointsAwarded != 0 || len(res.NewBadges) != 0 {
		t.Errorf("second call awarded %d points, badges %v", res.PointsAwarded, badgeNames(res.NewBadges))
	}
	if res.Habit.CurrentStreak != 1 || !res.Habit.CompletedToday {
		t.Errorf("habit = %+v", res.Habit)
	}
	u := f.reloadUser(t)
	if u.Points != 20 || u.Stats.TotalHabitsCompleted != 1 {
		t.Errorf("ledger after duplicate = %d %+v", u.Points, u.Stats)
	}
}

func TestCompleteExtendsStreakAcrossDays(t *testing.T) {
	f := newFixture(t)
	// Day -3 is missing, so day -4 must not count.
	h := f.newHabit(t, -1, -2, -4)

	res, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Habit.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", res.Habit.CurrentStreak)
	}
	if len(res.NewBadges) != 0 {
		t.Errorf("unexpected badges %v", badgeNames(res.NewBadges))
	}
}

func TestCompleteAwardsStreakBonusOnWeek(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t, -1, -2, -3, -4, -5, -6)

	res, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, "")
	if err != nil {
		t.Fatal(err)
	}

	if res.Habit.CurrentStreak != 7 {
		t.Fatalf("current streak = %d, want 7", res.Habit.CurrentStreak)
	}
	if res.PointsAwarded != 25 {
		t.Errorf("points awarded = %d, want 20 + 5 bonus", res.PointsAwarded)
	}
	if got := badgeNames(res.NewBadges); !equalStrings(got, []string{"1 Week Warrior"}) {
		t.Errorf("new badges = %v", got)
	}

	// Undo reverses the bonus as well.
	if _, err := f.habits.Uncomplete(f.ctx, f.user.ID, h.ID); err != nil {
		t.Fatal(err)
	}
	if u := f.reloadUser(t); u.Points != 0 {
		t.Errorf("points after undo = %d, want 0", u.Points)
	}
}

func TestCompleteThenUncompleteRestoresLedger(t *testing.T) {
	f := newFixture(t)
	f.setPoints(t, 100)
	h := f.newHabit(t, -1, -2)

	before := f.reloadUser(t)
	habitBefore, err := f.habits.Get(f.ctx, f.user.ID, h.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, ""); err != nil {
		t.Fatal(err)
	}
	undone, err := f.habits.Uncomplete(f.ctx, f.user.ID, h.ID)
	if err != nil {
		t.Fatalf("Uncomplete: %v", err)
	}

	after := f.reloadUser(t)
	if after.Points != before.Points {
		t.Errorf("points = %d, want %d", after.Points, before.Points)
	}
	if after.Stats.TotalHabitsCompleted != before.Stats.TotalHabitsCompleted {
		t.Errorf("totalHabitsCompleted = %d, want %d", after.Stats.TotalHabitsCompleted, before.Stats.TotalHabitsCompleted)
	}
	if undone.CurrentStreak != habitBefore.CurrentStreak {
		t.Errorf("current streak = %d, want %d", undone.CurrentStreak, habitBefore.CurrentStreak)
	}
	if undone.CompletedToday || len(undone.Completions) != 2 {
		t.Errorf("habit after undo = %+v", undone)
	}
	// Best streak is historical and stays at 3.
	if undone.BestStreak != 3 {
		t.Errorf("best streak = %d, want 3", undone.BestStreak)
	}
}

func TestUncompleteKeepsBadges(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t)

	if _, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.habits.Uncomplete(f.ctx, f.user.ID, h.ID); err != nil {
		t.Fatal(err)
	}
	if u := f.reloadUser(t); !u.HasBadge("First Steps") {
		t.Error("badge revoked by uncomplete")
	}
}

func TestUncompleteWithoutTodayIsNoop(t *testing.T) {
	f := newFixture(t)
	f.setPoints(t, 40)
	h := f.newHabit(t, -1)

	got, err := f.habits.Uncomplete(f.ctx, f.user.ID, h.ID)
	if err != nil {
		t.Fatalf("Uncomplete: %v", err)
	}
	if len(got.Completions) != 1 || got.CurrentStreak != 0 {
		t.Errorf("habit = %+v", got)
	}
	if u := f.reloadUser(t); u.Points != 40 {
		t.Errorf("points = %d, want 40", u.Points)
	}
}

func TestPointsBadgeAtThreshold(t *testing.T) {
	f := newFixture(t)
	f.setPoints(t, 980)
	// Yesterday's completion makes today streak 2, which unlocks nothing.
	h := f.newHabit(t, -1)

	res, err := f.habits.Complete(f.ctx, f.user.ID, h.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := badgeNames(res.NewBadges); !equalStrings(got, []string{"1K Collector"}) {
		t.Errorf("new badges = %v, want [1K Collector]", got)
	}
	if u := f.reloadUser(t); u.Points != 1000 {
		t.Errorf("points = %d, want 1000", u.Points)
	}
}

func TestHabitOwnership(t *testing.T) {
	f := newFixture(t)
	h := f.newHabit(t)
	stranger := uuid.New()

	if _, err := f.habits.Complete(f.ctx, stranger, h.ID, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Complete by stranger = %v, want ErrNotFound", err)
	}
	if _, err := f.habits.Update(f.ctx, stranger, h.ID, UpdateHabitInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update by stranger = %v, want ErrNotFound", err)
	}
	if err := f.habits.Delete(f.ctx, stranger, h.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete by stranger = %v, want ErrNotFound", err)
	}
}

func TestHabitCreateAndUpdateValidation(t *testing.T) {
	f := newFixture(t)

	blank := "   "
	weekly := domain.FrequencyWeekly
	bad := domain.Frequency("hourly")
	inactive := false

	tests := []struct {
		name    string
		create  CreateHabitInput
		update  *UpdateHabitInput
		wantErr bool
	}{
		{name: "defaults", create: CreateHabitInput{Title: "  Read  "}},
		{name: "missing title", create: CreateHabitInput{Title: ""}, wantErr: true},
		{name: "bad frequency", create: CreateHabitInput{Title: "x", Frequency: "hourly"}, wantErr: true},
		{name: "blank title on update", create: CreateHabitInput{Title: "x"}, update: &UpdateHabitInput{Title: &blank}, wantErr: true},
		{name: "bad frequency on update", create: CreateHabitInput{Title: "x"}, update: &UpdateHabitInput{Frequency: &bad}, wantErr: true},
		{name: "update fields", create: CreateHabitInput{Title: "x"}, update: &UpdateHabitInput{Frequency: &weekly, IsActive: &inactive}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := f.habits.Create(f.ctx, f.user.ID, tt.create)
			if tt.update == nil {
				if (err != nil) != tt.wantErr {
					t.Fatalf("Create error = %v, wantErr %v", err, tt.wantErr)
				}
				if err == nil && (h.Title != "Read" || h.Color != domain.DefaultHabitColor || h.Icon != domain.DefaultHabitIcon || h.Frequency != domain.FrequencyDaily || !h.IsActive) {
					t.Errorf("defaults not applied: %+v", h)
				}
				if err != nil && !errors.Is(err, domain.ErrValidation) {
					t.Errorf("error %v is not a validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got, err := f.habits.Update(f.ctx, f.user.ID, h.ID, *tt.update)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Update error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (got.Frequency != domain.FrequencyWeekly || got.IsActive) {
				t.Errorf("update not applied: %+v", got)
			}
		})
	}
}

func TestListReturnsActiveWithDerivedStreaks(t *testing.T) {
	f := newFixture(t)
	active := f.newHabit(t, 0, -1)
	stale := f.newHabit(t, -1, -2)
	hidden := f.newHabit(t)
	off := false
	if _, err := f.habits.Update(f.ctx, f.user.ID, hidden.ID, UpdateHabitInput{IsActive: &off}); err != nil {
		t.Fatal(err)
	}

	list, err := f.habits.List(f.ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d habits, want 2", len(list))
	}
	byID := map[string]domain.Habit{}
	for _, h := range list {
		byID[h.ID.String()] = h
	}
	if h := byID[active.ID.String()]; h.CurrentStreak != 2 || !h.CompletedToday {
		t.Errorf("active habit = streak %d today %v", h.CurrentStreak, h.CompletedToday)
	}
	if h := byID[stale.ID.String()]; h.CurrentStreak != 0 || h.CompletedToday || h.BestStreak != 0 {
		t.Errorf("stale habit = streak %d best %d today %v", h.CurrentStreak, h.BestStreak, h.CompletedToday)
	}
}
