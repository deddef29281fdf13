package repository

import (
	"context"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	err := r.db.WithContext(ctx).Omit("Completions").Create(habit).Error
	return translate("create habit", err, nil)
}

// GetByID returns the habit with its completions when userID owns it.
func (r *HabitRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.withCompletions(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&habit).Error
	if err != nil {
		return nil, translate("get habit", err, domain.ErrHabitNotFound)
	}
	return &habit, nil
}

func (r *HabitRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	var habits []domain.Habit
	err := r.withCompletions(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		Find(&habits).Error
	return habits, translate("list habits", err, nil)
}

// ListAll includes inactive habits.
func (r *HabitRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Habit, error) {
	var habits []domain.Habit
	err := r.withCompletions(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&habits).Error
	return habits, translate("list habits", err, nil)
}

func (r *HabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	res := r.db.WithContext(ctx).Model(&domain.Habit{}).
		Where("id = ? AND user_id = ?", habit.ID, habit.UserID).
		Updates(map[string]interface{}{
			"title":          habit.Title,
			"description":    habit.Description,
			"color":          habit.Color,
			"icon":           habit.Icon,
			"frequency":      habit.Frequency,
			"is_active":      habit.IsActive,
			"current_streak": habit.CurrentStreak,
			"best_streak":    habit.BestStreak,
		})
	if res.Error != nil {
		return translate("update habit", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// SaveStreaks persists the derived streak fields only.
func (r *HabitRepository) SaveStreaks(ctx context.Context, habit *domain.Habit) error {
	err := r.db.WithContext(ctx).Model(&domain.Habit{}).
		Where("id = ?", habit.ID).
		Updates(map[string]interface{}{
			"current_streak": habit.CurrentStreak,
			"best_streak":    habit.BestStreak,
		}).Error
	return translate("save streaks", err, nil)
}

// Delete removes the habit and its completions.
func (r *HabitRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Habit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrHabitNotFound
		}
		return tx.Where("habit_id = ?", id).Delete(&domain.HabitCompletion{}).Error
	})
	return translate("delete habit", err, nil)
}

// AddCompletion appends one day. A second completion for the same
// (habit, day) is rejected with ErrAlreadyCompleted without aborting the
// surrounding transaction.
func (r *HabitRepository) AddCompletion(ctx context.Context, c *domain.HabitCompletion) error {
	c.Day = c.Day.UTC()
	c.CompletedAt = c.CompletedAt.UTC()
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return translate("add completion", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyCompleted
	}
	return nil
}

func (r *HabitRepository) RemoveCompletion(ctx context.Context, habitID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND habit_id = ?", id, habitID).
		Delete(&domain.HabitCompletion{})
	if res.Error != nil {
		return translate("remove completion", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *HabitRepository) withCompletions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Completions", func(db *gorm.DB) *gorm.DB {
		return db.Order("day asc")
	})
}
