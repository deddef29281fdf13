package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", ErrConflict)
)

// User is both the auth identity and the gamification ledger: points,
// badges and cumulative counters live on the same row.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	Stats     Stats     `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	Badges    []Badge   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Stats struct {
	TotalHabitsCompleted int `gorm:"not null;default:0" json:"totalHabitsCompleted"`
	TotalTasksCompleted  int `gorm:"not null;default:0" json:"totalTasksCompleted"`
	TotalJournalEntries  int `gorm:"not null;default:0" json:"totalJournalEntries"`
	LongestStreak        int `gorm:"not null;default:0" json:"longestStreak"`
}

// Badge rows are append-only; (user_id, name) is unique.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_badges_user_name" json:"-"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_badges_user_name" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:32" json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

// RecentBadges returns up to n badges, newest first.
func (u *User) RecentBadges(n int) []Badge {
	out := make([]Badge, 0, n)
	for i := len(u.Badges) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, u.Badges[i])
	}
	return out
}
