// Package seed loads a demo account with a week of history.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/infrastructure/security"
	"lifequest/internal/logger"
	"lifequest/internal/streak"

	"github.com/google/uuid"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
	demoUsername = "demouser"
)

type Seeder struct {
	store  *repository.Store
	hasher *security.PasswordHasher
	engine *gamification.Engine
	cal    dates.Calendar
	now    func() time.Time
}

func New(store *repository.Store, hasher *security.PasswordHasher, engine *gamification.Engine, cal dates.Calendar) *Seeder {
	return &Seeder{store: store, hasher: hasher, engine: engine, cal: cal, now: time.Now}
}

type habitSeed struct {
	title, description, color, icon string
	daysAgo                         []int
	best                            int
}

type taskSeed struct {
	title, description, category string
	priority                     domain.Priority
	points                       int
	dueInDays                    *int
	completedDaysAgo             *int
	tags                         []string
}

type journalSeed struct {
	title, content, weather string
	mood                    domain.Mood
	daysAgo                 int
	tags                    []string
}

func intp(n int) *int { return &n }

var habits = []habitSeed{
	{"Morning Exercise", "30 minutes of physical activity", "#EF4444", "🏃", []int{1, 2, 3}, 7},
	{"Read 30 Minutes", "Daily reading habit", "#3B82F6", "📚", []int{1, 2}, 5},
	{"Meditation", "10 minutes of mindfulness", "#10B981", "🧘", []int{1}, 3},
	{"Drink 8 Glasses of Water", "Stay hydrated throughout the day", "#06B6D4", "💧", nil, 2},
}

var tasks = []taskSeed{
	{"Complete project proposal", "Finish the Q4 project proposal document", "work", domain.PriorityHigh, 25, intp(2), nil, []string{"work", "urgent"}},
	{"Call mom", "Weekly check-in call", "personal", domain.PriorityMedium, 10, nil, nil, []string{"family"}},
	{"Grocery shopping", "Buy ingredients for this week's meals", "household", domain.PriorityMedium, 15, nil, intp(1), []string{"shopping", "food"}},
	{"Schedule dentist appointment", "Book routine cleaning appointment", "health", domain.PriorityLow, 10, nil, nil, []string{"health", "appointment"}},
	{"Update resume", "Add recent projects and skills", "career", domain.PriorityMedium, 20, nil, intp(3), []string{"career", "professional"}},
}

var journals = []journalSeed{
	{"Great Day at Work", "Finished the client presentation and the team liked it. The new project looks promising.", "sunny", domain.MoodHappy, 0, []string{"work", "productivity"}},
	{"Reflection on Goals", "Took some time to look at where I am and where I want to be. Tracking habits helps with consistency.", "", domain.MoodNeutral, 2, []string{"goals", "reflection"}},
	{"Challenging Day", "Work was stressful and the deadlines piled up, but I kept my meditation habit and it helped.", "rainy", domain.MoodSad, 4, []string{"stress", "mindfulness"}},
	{"Weekend Adventures", "Went hiking with friends. Perfect weather and great views. Want to make this a regular thing.", "sunny", domain.MoodVeryHappy, 6, []string{"hiking", "friends"}},
	{"Learning Something New", "Started learning a new framework. Challenging but exciting, and the course is well structured.", "", domain.MoodHappy, 7, []string{"learning", "growth"}},
}

// Run replaces any existing demo account and returns the new one.
func (s *Seeder) Run(ctx context.Context) (*domain.User, error) {
	err := s.store.Users.DeleteByEmail(ctx, DemoEmail)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		logger.Info("removed existing demo data", "email", DemoEmail)
	}

	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	now := s.now()
	today := s.cal.StartOfDay(now)
	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * 24 * time.Hour) }

	user := &domain.User{
		Username: demoUsername,
		Email:    DemoEmail,
		Password: hash,
		Points:   500,
		Stats: domain.Stats{
			TotalHabitsCompleted: 15,
			TotalTasksCompleted:  8,
			TotalJournalEntries:  5,
			LongestStreak:        7,
		},
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		badges := s.badges(user.ID, []earnedBadge{
			{"First Steps", now},
			{"1 Week Warrior", ago(7)},
		})
		if err := tx.Users.AddBadges(ctx, badges); err != nil {
			return err
		}

		for _, hs := range habits {
			h := &domain.Habit{
				UserID:      user.ID,
				Title:       hs.title,
				Description: hs.description,
				Color:       hs.color,
				Icon:        hs.icon,
				Frequency:   domain.FrequencyDaily,
				IsActive:    true,
			}
			if err := tx.Habits.Create(ctx, h); err != nil {
				return err
			}
			days := make([]time.Time, 0, len(hs.daysAgo))
			for _, d := range hs.daysAgo {
				day := s.cal.AddDays(today, -d)
				days = append(days, day)
				if err := tx.Habits.AddCompletion(ctx, &domain.HabitCompletion{
					HabitID:       h.ID,
					Day:           day,
					CompletedAt:   ago(d),
					PointsAwarded: s.engine.PointsFor(gamification.ActionHabitComplete, nil),
				}); err != nil {
					return err
				}
			}
			res := streak.Calculate(s.cal, days, now, hs.best)
			h.CurrentStreak, h.BestStreak = res.Current, res.Best
			if err := tx.Habits.SaveStreaks(ctx, h); err != nil {
				return err
			}
		}

		for _, ts := range tasks {
			t := &domain.Task{
				UserID:      user.ID,
				Title:       ts.title,
				Description: ts.description,
				Priority:    ts.priority,
				Category:    ts.category,
				Points:      ts.points,
				Tags:        ts.tags,
			}
			if ts.dueInDays != nil {
				due := now.Add(time.Duration(*ts.dueInDays) * 24 * time.Hour).UTC()
				t.DueDate = &due
			}
			if ts.completedDaysAgo != nil {
				t.MarkCompleted(ago(*ts.completedDaysAgo).UTC())
				t.PointsAwarded = ts.points
			}
			if err := tx.Tasks.Create(ctx, t); err != nil {
				return err
			}
		}

		for _, js := range journals {
			j := &domain.JournalEntry{
				UserID:    user.ID,
				Title:     js.title,
				Content:   js.content,
				Mood:      js.mood,
				MoodScore: js.mood.Score(),
				Tags:      js.tags,
				IsPrivate: true,
				Weather:   js.weather,
				CreatedAt: ago(js.daysAgo).UTC(),
			}
			if err := tx.Journals.Create(ctx, j); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seeded demo data", "email", DemoEmail, "habits", len(habits), "tasks", len(tasks), "journals", len(journals))
	return s.store.Users.GetByID(ctx, user.ID)
}

type earnedBadge struct {
	name string
	at   time.Time
}

// badges resolves badge metadata from the active rule set. Names the rule
// set does not define are skipped.
func (s *Seeder) badges(userID uuid.UUID, earned []earnedBadge) []domain.Badge {
	rules := s.engine.Rules()
	var out []domain.Badge
	for _, e := range earned {
	search:
		for _, list := range rules.Badges {
			for _, r := range list {
				if r.Name == e.name {
					out = append(out, domain.Badge{
						UserID:      userID,
						Name:        r.Name,
						Description: r.Description,
						Icon:        r.Icon,
						EarnedAt:    e.at.UTC(),
					})
					break search
				}
			}
		}
	}
	return out
}
