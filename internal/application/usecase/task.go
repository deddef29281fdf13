package usecase

import (
	"context"
	"time"

	"lifequest/internal/domain"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/repository"

	"github.com/google/uuid"
)

type TaskUseCase struct {
	store  *repository.Store
	engine *gamification.Engine
	now    func() time.Time
}

func NewTaskUseCase(store *repository.Store, engine *gamification.Engine) *TaskUseCase {
	return &TaskUseCase{store: store, engine: engine, now: time.Now}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	Category    string
	DueDate     *time.Time
	Points      *int
	Tags        []string
}

// UpdateTaskInput: nil fields are left unchanged. ClearDueDate removes the
// due date; DueDate wins if both are set.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *domain.Priority
	Category     *string
	DueDate      *time.Time
	ClearDueDate bool
	Points       *int
	Tags         *[]string
	Completed    *bool
}

type TaskListInput struct {
	Completed *bool
	Category  string
	Search    string
	PageRequest
}

type TaskPage struct {
	Tasks      []domain.Task `json:"tasks"`
	Pagination Pagination    `json:"pagination"`
}

type TaskResult struct {
	Task          *domain.Task   `json:"task"`
	PointsAwarded int            `json:"pointsAwarded"`
	NewBadges     []domain.Badge `json:"newBadges"`
}

func (uc *TaskUseCase) List(ctx context.Context, userID uuid.UUID, in TaskListInput) (*TaskPage, error) {
	page := in.normalize()
	tasks, total, err := uc.store.Tasks.List(ctx, userID, repository.TaskFilter{
		Completed: in.Completed,
		Category:  in.Category,
		Search:    in.Search,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return &TaskPage{Tasks: tasks, Pagination: newPagination(page, total)}, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	return uc.store.Tasks.GetByID(ctx, userID, id)
}

func (uc *TaskUseCase) Create(ctx context.Context, userID uuid.UUID, in CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		UserID:   userID,
		Priority: domain.PriorityMedium,
		Category: domain.DefaultTaskCategory,
		Points:   domain.DefaultTaskPoints,
		Tags:     []string{},
	}
	upd := UpdateTaskInput{
		Title:       &in.Title,
		Description: &in.Description,
		DueDate:     in.DueDate,
		Points:      in.Points,
		Tags:        &in.Tags,
	}
	if in.Priority != "" {
		upd.Priority = &in.Priority
	}
	if in.Category != "" {
		upd.Category = &in.Category
	}
	if err := applyTaskInput(task, upd); err != nil {
		return nil, err
	}
	if err := uc.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the changes. A false->true transition of completed awards
// the task's points and checks task and point badges; true->false reverses
// the award. completedAt is never cleared.
func (uc *TaskUseCase) Update(ctx context.Context, userID, id uuid.UUID, in UpdateTaskInput) (*TaskResult, error) {
	now := uc.now()

	result := &TaskResult{NewBadges: []domain.Badge{}}
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		task, err := tx.Tasks.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := applyTaskInput(task, in); err != nil {
			return err
		}

		ledgerChanged := false
		if in.Completed != nil {
			switch {
			case *in.Completed && task.MarkCompleted(now):
				// The task's own reward overrides the task_complete schedule entry.
				custom := task.Points
				task.PointsAwarded = uc.engine.AwardPoints(user, gamification.ActionTaskComplete, &custom)
				user.Stats.TotalTasksCompleted++
				badges := uc.engine.CheckBadges(user, gamification.TriggerTaskCount, user.Stats.TotalTasksCompleted, now)
				badges = append(badges, uc.engine.CheckBadges(user, gamification.TriggerPoints, 0, now)...)
				if err := tx.Users.AddBadges(ctx, badges); err != nil {
					return err
				}
				result.PointsAwarded = task.PointsAwarded
				result.NewBadges = badges
				ledgerChanged = true
			case !*in.Completed && task.MarkIncomplete():
				uc.engine.RevokePoints(user, task.PointsAwarded)
				task.PointsAwarded = 0
				if user.Stats.TotalTasksCompleted > 0 {
					user.Stats.TotalTasksCompleted--
				}
				ledgerChanged = true
			}
		}

		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}
		if ledgerChanged {
			if err := tx.Users.SaveLedger(ctx, user); err != nil {
				return err
			}
		}
		result.Task = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return uc.store.Tasks.Delete(ctx, userID, id)
}

func (uc *TaskUseCase) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	categories, err := uc.store.Tasks.Categories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func applyTaskInput(t *domain.Task, in UpdateTaskInput) error {
	var err error
	if in.Title != nil {
		if t.Title, err = requireText("title", *in.Title, 200); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if t.Description, err = limitText("description", *in.Description, 1000); err != nil {
			return err
		}
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return domain.NewValidationError("priority", "must be low, medium or high")
		}
		t.Priority = *in.Priority
	}
	if in.Category != nil {
		category, err := limitText("category", *in.Category, 64)
		if err != nil {
			return err
		}
		if category == "" {
			category = domain.DefaultTaskCategory
		}
		t.Category = category
	}
	if in.ClearDueDate {
		t.DueDate = nil
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		t.DueDate = &due
	}
	if in.Points != nil {
		if *in.Points < 0 {
			return domain.NewValidationError("points", "must not be negative")
		}
		t.Points = *in.Points
	}
	if in.Tags != nil {
		t.Tags = cleanTags(*in.Tags)
	}
	return nil
}
