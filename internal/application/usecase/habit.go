package usecase

import (
	"context"
	"errors"
	"time"

	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/logger"
	"lifequest/internal/streak"

	"github.com/google/uuid"
)

// streakBonusEvery awards the streak_bonus action each time a habit's
// current streak reaches a multiple of this many days.
const streakBonusEvery = 7

type HabitUseCase struct {
	store  *repository.Store
	engine *gamification.Engine
	cal    dates.Calendar
	now    func() time.Time
}

func NewHabitUseCase(store *repository.Store, engine *gamification.Engine, cal dates.Calendar) *HabitUseCase {
	return &HabitUseCase{store: store, engine: engine, cal: cal, now: time.Now}
}

type CreateHabitInput struct {
	Title       string
	Description string
	Color       string
	Icon        string
	Frequency   domain.Frequency
}

// UpdateHabitInput carries only the fields a caller may change. Nil means
// unchanged.
type UpdateHabitInput struct {
	Title       *string
	Description *string
	Color       *string
	Icon        *string
	Frequency   *domain.Frequency
	IsActive    *bool
}

type CompletionResult struct {
	Habit         *domain.Habit  `json:"habit"`
	PointsAwarded int            `json:"pointsAwarded"`
	NewBadges     []domain.Badge `json:"newBadges"`
}

// List returns the active habits, newest first, with streaks derived from
// the completion set at the current instant.
func (uc *HabitUseCase) List(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	habits, err := uc.store.Habits.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	for i := range habits {
		deriveStreaks(uc.cal, &habits[i], now)
	}
	return habits, nil
}

func (uc *HabitUseCase) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Habit, error) {
	habit, err := uc.store.Habits.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	deriveStreaks(uc.cal, habit, uc.now())
	return habit, nil
}

func (uc *HabitUseCase) Create(ctx context.Context, userID uuid.UUID, in CreateHabitInput) (*domain.Habit, error) {
	habit := &domain.Habit{
		UserID:      userID,
		Color:       domain.DefaultHabitColor,
		Icon:        domain.DefaultHabitIcon,
		Frequency:   domain.FrequencyDaily,
		IsActive:    true,
		Completions: []domain.HabitCompletion{},
	}
	err := applyHabitInput(habit, UpdateHabitInput{
		Title:       &in.Title,
		Description: &in.Description,
		Color:       nonEmpty(in.Color),
		Icon:        nonEmpty(in.Icon),
		Frequency:   nonEmptyFrequency(in.Frequency),
	})
	if err != nil {
		return nil, err
	}
	if err := uc.store.Habits.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (uc *HabitUseCase) Update(ctx context.Context, userID, id uuid.UUID, in UpdateHabitInput) (*domain.Habit, error) {
	habit, err := uc.store.Habits.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyHabitInput(habit, in); err != nil {
		return nil, err
	}
	if err := uc.store.Habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	deriveStreaks(uc.cal, habit, uc.now())
	return habit, nil
}

func (uc *HabitUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return uc.store.Habits.Delete(ctx, userID, id)
}

// Complete records today's completion, recomputes the streak, awards
// points and evaluates streak and point badges, all in one transaction.
// Completing a habit that is already done today succeeds with nothing
// awarded.
func (uc *HabitUseCase) Complete(ctx context.Context, userID, habitID uuid.UUID, note string) (*CompletionResult, error) {
	note, err := limitText("note", note, 500)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var result *CompletionResult
	err = uc.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		habit, err := tx.Habits.GetByID(ctx, userID, habitID)
		if err != nil {
			return err
		}
		if todaysCompletion(uc.cal, habit, now) != nil {
			return domain.ErrAlreadyCompleted
		}

		completion := domain.HabitCompletion{
			HabitID:     habit.ID,
			Day:         uc.cal.StartOfDay(now),
			CompletedAt: now,
			Note:        note,
		}
		habit.Completions = append(habit.Completions, completion)
		res := streak.Calculate(uc.cal, habit.CompletionDays(), now, habit.BestStreak)
		habit.CurrentStreak, habit.BestStreak = res.Current, res.Best

		awarded := uc.engine.AwardPoints(user, gamification.ActionHabitComplete, nil)
		if res.Current > 0 && res.Current%streakBonusEvery == 0 {
			awarded += uc.engine.AwardPoints(user, gamification.ActionStreakBonus, nil)
		}
		completion.PointsAwarded = awarded
		if err := tx.Habits.AddCompletion(ctx, &completion); err != nil {
			return err
		}
		habit.Completions[len(habit.Completions)-1] = completion

		if err := tx.Habits.SaveStreaks(ctx, habit); err != nil {
			return err
		}

		user.Stats.TotalHabitsCompleted++
		user.Stats.LongestStreak = max(user.Stats.LongestStreak, res.Best)
		badges := uc.engine.CheckBadges(user, gamification.TriggerHabitStreak, res.Current, now)
		badges = append(badges, uc.engine.CheckBadges(user, gamification.TriggerPoints, 0, now)...)
		if err := tx.Users.AddBadges(ctx, badges); err != nil {
			return err
		}
		if err := tx.Users.SaveLedger(ctx, user); err != nil {
			return err
		}

		habit.CompletedToday = true
		result = &CompletionResult{Habit: habit, PointsAwarded: awarded, NewBadges: badges}
		return nil
	})

	if errors.Is(err, domain.ErrAlreadyCompleted) {
		habit, err := uc.Get(ctx, userID, habitID)
		if err != nil {
			return nil, err
		}
		return &CompletionResult{Habit: habit, NewBadges: []domain.Badge{}}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("habit completed", "habit", habitID, "streak", result.Habit.CurrentStreak, "points", result.PointsAwarded)
	return result, nil
}

// Uncomplete removes today's completion and reverses exactly what that
// completion awarded. Badges stay. A habit not completed today is returned
// unchanged.
func (uc *HabitUseCase) Uncomplete(ctx context.Context, userID, habitID uuid.UUID) (*domain.Habit, error) {
	now := uc.now()

	var result *domain.Habit
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		habit, err := tx.Habits.GetByID(ctx, userID, habitID)
		if err != nil {
			return err
		}
		today := todaysCompletion(uc.cal, habit, now)
		if today == nil {
			deriveStreaks(uc.cal, habit, now)
			result = habit
			return nil
		}
		removed := *today

		if err := tx.Habits.RemoveCompletion(ctx, habit.ID, removed.ID); err != nil {
			return err
		}
		kept := habit.Completions[:0]
		for _, c := range habit.Completions {
			if c.ID != removed.ID {
				kept = append(kept, c)
			}
		}
		habit.Completions = kept

		res := streak.Calculate(uc.cal, habit.CompletionDays(), now, habit.BestStreak)
		habit.CurrentStreak, habit.BestStreak = res.Current, res.Best
		if err := tx.Habits.SaveStreaks(ctx, habit); err != nil {
			return err
		}

		uc.engine.RevokePoints(user, removed.PointsAwarded)
		if user.Stats.TotalHabitsCompleted > 0 {
			user.Stats.TotalHabitsCompleted--
		}
		if err := tx.Users.SaveLedger(ctx, user); err != nil {
			return err
		}

		habit.CompletedToday = false
		result = habit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyHabitInput(h *domain.Habit, in UpdateHabitInput) error {
	var err error
	if in.Title != nil {
		if h.Title, err = requireText("title", *in.Title, 100); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if h.Description, err = limitText("description", *in.Description, 500); err != nil {
			return err
		}
	}
	if in.Color != nil {
		if h.Color, err = limitText("color", *in.Color, 16); err != nil {
			return err
		}
	}
	if in.Icon != nil {
		if h.Icon, err = limitText("icon", *in.Icon, 32); err != nil {
			return err
		}
	}
	if in.Frequency != nil {
		if !in.Frequency.Valid() {
			return domain.NewValidationError("frequency", "must be daily or weekly")
		}
		h.Frequency = *in.Frequency
	}
	if in.IsActive != nil {
		h.IsActive = *in.IsActive
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmptyFrequency(f domain.Frequency) *domain.Frequency {
	if f == "" {
		return nil
	}
	return &f
}
