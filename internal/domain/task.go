package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	DefaultTaskPoints   = 10
	DefaultTaskCategory = "general"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000" json:"description"`
	Completed   bool      `gorm:"not null;index" json:"completed"`
	// CompletedAt is set on the first false->true transition and never
	// cleared afterwards.
	CompletedAt   *time.Time                  `json:"completedAt"`
	DueDate       *time.Time                  `json:"dueDate"`
	Priority      Priority                    `gorm:"size:16;not null" json:"priority"`
	Category      string                      `gorm:"size:64;not null;index" json:"category"`
	Points        int                         `gorm:"not null" json:"points"`
	PointsAwarded int                         `gorm:"not null;default:0" json:"-"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt     time.Time                   `gorm:"<-:create" json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MarkCompleted flips the task to completed. It reports whether this was a
// false->true transition.
func (t *Task) MarkCompleted(now time.Time) bool {
	if t.Completed {
		return false
	}
	t.Completed = true
	if t.CompletedAt == nil {
		at := now.UTC()
		t.CompletedAt = &at
	}
	return true
}

// MarkIncomplete reports whether this was a true->false transition.
// CompletedAt is left untouched.
func (t *Task) MarkIncomplete() bool {
	if !t.Completed {
		return false
	}
	t.Completed = false
	return true
}

// IsOverdue reports whether the task is incomplete with a due date before
// startOfToday.
func (t *Task) IsOverdue(startOfToday time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(startOfToday)
}
