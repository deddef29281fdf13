package usecase

import (
	"context"
	"testing"
	"time"

	"lifequest/internal/analytics"
	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/database"
	"lifequest/internal/infrastructure/repository"
)

// fixedNow is a Thursday afternoon.
var fixedNow = time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dayOffset(n int) time.Time {
	return time.Date(2024, 3, 14+n, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	ctx       context.Context
	store     *repository.Store
	user      *domain.User
	habits    *HabitUseCase
	tasks     *TaskUseCase
	journals  *JournalUseCase
	analytics *AnalyticsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	store := repository.NewStore(db)
	engine := gamification.NewDefaultEngine()
	cal := dates.Calendar{}

	f := &fixture{
		ctx:       context.Background(),
		store:     store,
		habits:    NewHabitUseCase(store, engine, cal),
		tasks:     NewTaskUseCase(store, engine),
		journals:  NewJournalUseCase(store, engine, cal),
		analytics: NewAnalyticsUseCase(store, analytics.New(cal), 30, 365),
	}
	f.habits.now = clock
	f.tasks.now = clock
	f.journals.now = clock
	f.analytics.now = clock

	f.user = &domain.User{Username: "ann", Email: "ann@example.com", Password: "hash"}
	if err := store.Users.Create(f.ctx, f.user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return f
}

func (f *fixture) reloadUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := f.store.Users.GetByID(f.ctx, f.user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u
}

func (f *fixture) setPoints(t *testing.T, points int) {
	t.Helper()
	u := f.reloadUser(t)
	u.Points = points
	if err := f.store.Users.SaveLedger(f.ctx, u); err != nil {
		t.Fatal(err)
	}
}

// newHabit creates a habit with completions on the given day offsets.
func (f *fixture) newHabit(t *testing.T, offsets ...int) *domain.Habit {
	t.Helper()
	h, err := f.habits.Create(f.ctx, f.user.ID, CreateHabitInput{Title: "Meditate"})
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}
	for _, o := range offsets {
		c := &domain.HabitCompletion{HabitID: h.ID, Day: dayOffset(o), CompletedAt: dayOffset(o).Add(8 * time.Hour)}
		if err := f.store.Habits.AddCompletion(f.ctx, c); err != nil {
			t.Fatalf("seed completion: %v", err)
		}
	}
	return h
}

func badgeNames(badges []domain.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
