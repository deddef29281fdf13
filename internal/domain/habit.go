package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrHabitNotFound = fmt.Errorf("habit %w", ErrNotFound)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

const (
	DefaultHabitColor = "#3B82F6"
	DefaultHabitIcon  = "🎯"
)

// Habit streak fields are derived from Completions and must only be written
// by the streak calculator.
type Habit struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user"`
	Title          string            `gorm:"size:100;not null" json:"title"`
	Description    string            `gorm:"size:500" json:"description"`
	Color          string            `gorm:"size:16" json:"color"`
	Icon           string            `gorm:"size:32" json:"icon"`
	Frequency      Frequency         `gorm:"size:16;not null" json:"frequency"`
	IsActive       bool              `gorm:"not null" json:"isActive"`
	CurrentStreak  int               `gorm:"not null;default:0" json:"currentStreak"`
	BestStreak     int               `gorm:"not null;default:0" json:"bestStreak"`
	Completions    []HabitCompletion `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE;" json:"completedDates"`
	CompletedToday bool              `gorm:"-" json:"completedToday"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// HabitCompletion is one completed calendar day. Day holds the midnight of
// that day in the reference zone; (habit_id, day) is unique so two racing
// completions cannot both land.
type HabitCompletion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completions_habit_day" json:"-"`
	Day           time.Time `gorm:"not null;uniqueIndex:idx_completions_habit_day" json:"date"`
	CompletedAt   time.Time `gorm:"not null" json:"completedAt"`
	Note          string    `gorm:"size:500" json:"note,omitempty"`
	PointsAwarded int       `gorm:"not null;default:0" json:"-"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (c *HabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompletionDays returns the raw completion days in stored order.
func (h *Habit) CompletionDays() []time.Time {
	days := make([]time.Time, 0, len(h.Completions))
	for _, c := range h.Completions {
		days = append(days, c.Day)
	}
	return days
}
