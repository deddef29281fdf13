package repository

import (
	"context"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type TaskFilter struct {
	Completed *bool
	Category  string
	Search    string
	Page
}

// priorityRank orders high > medium > low independent of collation.
const priorityRank = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END"

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	err := r.db.WithContext(ctx).Create(task).Error
	return translate("create task", err, nil)
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, translate("get task", err, domain.ErrTaskNotFound)
	}
	return &task, nil
}

// List returns one page sorted incomplete first, then by priority, then
// newest first, together with the unpaginated total.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, f TaskFilter) ([]domain.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{}).Where("user_id = ?", userID)
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count tasks", err, nil)
	}

	var tasks []domain.Task
	err := q.Order("completed asc").
		Order(priorityRank + " desc").
		Order("created_at desc").
		Offset(f.offset()).
		Limit(f.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, translate("list tasks", err, nil)
	}
	return tasks, total, nil
}

func (r *TaskRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, translate("list tasks", err, nil)
}

var taskColumns = []string{
	"title", "description", "completed", "completed_at", "due_date",
	"priority", "category", "points", "points_awarded", "tags", "updated_at",
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", task.UserID).
		Select(taskColumns).
		Updates(task)
	if res.Error != nil {
		return translate("update task", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return translate("delete task", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Categories returns the distinct categories in use, sorted.
func (r *TaskRepository) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("category asc").
		Pluck("category", &categories).Error
	return categories, translate("list categories", err, nil)
}
