package seed

import (
	"context"
	"testing"
	"time"

	"lifequest/internal/dates"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/database"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/infrastructure/security"

	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

func newSeeder(t *testing.T) (*Seeder, *repository.Store) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	store := repository.NewStore(db)
	s := New(store, security.NewPasswordHasherWithCost(bcrypt.MinCost), gamification.NewDefaultEngine(), dates.Calendar{})
	s.now = func() time.Time { return fixedNow }
	return s, store
}

func TestRunCreatesDemoAccount(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)

	user, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if user.Email != DemoEmail || user.Points != 500 {
		t.Errorf("user = %s/%d", user.Email, user.Points)
	}
	if len(user.Badges) != 2 || user.Badges[0].Name != "1 Week Warrior" {
		t.Errorf("badges = %+v", user.Badges)
	}
	if err := s.hasher.Compare(user.Password, DemoPassword); err != nil {
		t.Errorf("demo password does not verify: %v", err)
	}

	habits, err := store.Habits.ListAll(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 4 {
		t.Fatalf("habits = %d, want 4", len(habits))
	}
	for _, h := range habits {
		if h.Title != "Morning Exercise" {
			continue
		}
		if len(h.Completions) != 3 {
			t.Errorf("Morning Exercise completions = %d, want 3", len(h.Completions))
		}
		// Nothing is completed today, so only the best streak survives.
		if h.CurrentStreak != 0 || h.BestStreak != 7 {
			t.Errorf("Morning Exercise streaks = %d/%d, want 0/7", h.CurrentStreak, h.BestStreak)
		}
	}

	tasks, err := store.Tasks.ListAll(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
			if task.CompletedAt == nil {
				t.Errorf("task %q completed without completedAt", task.Title)
			}
		}
	}
	if len(tasks) != 5 || completed != 2 {
		t.Errorf("tasks = %d (%d completed), want 5 (2)", len(tasks), completed)
	}

	entries, err := store.Journals.ListAll(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Errorf("journal entries = %d, want 5", len(entries))
	}
}

func TestRunReplacesExistingDemoData(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)

	first, err := s.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if first.ID == second.ID {
		t.Error("demo user was not recreated")
	}

	habits, err := store.Habits.ListAll(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 {
		t.Errorf("old demo habits left behind: %d", len(habits))
	}
	habits, err = store.Habits.ListAll(ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 4 {
		t.Errorf("habits after reseed = %d, want 4", len(habits))
	}
}
