package repository

import (
	"context"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if err != nil && isDuplicate(err) {
		return domain.ErrUserAlreadyExists
	}
	return translate("create user", err, nil)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.withBadges(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate("get user by email", err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.withBadges(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate("get user", err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// GetForUpdate loads the ledger row and locks it until the surrounding
// transaction ends. Concurrent completions for one user queue here.
func (r *UserRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := r.withBadges(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user domain.User
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("lock user", err, domain.ErrUserNotFound)
	}
	return &user, nil
}

// SaveLedger writes points and counters. Badges go through AddBadges.
func (r *UserRepository) SaveLedger(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"points":                       user.Points,
			"stats_total_habits_completed": user.Stats.TotalHabitsCompleted,
			"stats_total_tasks_completed":  user.Stats.TotalTasksCompleted,
			"stats_total_journal_entries":  user.Stats.TotalJournalEntries,
			"stats_longest_streak":         user.Stats.LongestStreak,
		}).Error
	return translate("save ledger", err, nil)
}

// AddBadges appends badges; a name the user already holds is skipped.
func (r *UserRepository) AddBadges(ctx context.Context, badges []domain.Badge) error {
	if len(badges) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(&badges).Error
	return translate("add badges", err, nil)
}

// DeleteByEmail removes the user and everything they own. Used by the seed
// command to replace demo data.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return translate("find user", err, domain.ErrUserNotFound)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habitIDs := tx.Model(&domain.Habit{}).Select("id").Where("user_id = ?", user.ID)
		steps := []struct {
			model interface{}
			query *gorm.DB
		}{
			{&domain.HabitCompletion{}, tx.Where("habit_id IN (?)", habitIDs)},
			{&domain.Habit{}, tx.Where("user_id = ?", user.ID)},
			{&domain.Task{}, tx.Where("user_id = ?", user.ID)},
			{&domain.JournalEntry{}, tx.Where("user_id = ?", user.ID)},
			{&domain.Badge{}, tx.Where("user_id = ?", user.ID)},
			{&domain.User{}, tx.Where("id = ?", user.ID)},
		}
		for _, s := range steps {
			if err := s.query.Delete(s.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate("delete user", err, nil)
}

func (r *UserRepository) withBadges(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Badges", func(db *gorm.DB) *gorm.DB {
		return db.Order("earned_at asc, id asc")
	})
}
