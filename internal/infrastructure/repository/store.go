package repository

import (
	"context"
	"errors"
	"strings"

	"lifequest/internal/domain"

	"gorm.io/gorm"
)

// Store groups the owner-scoped repositories over one connection or one
// transaction.
type Store struct {
	db       *gorm.DB
	Users    *UserRepository
	Habits   *HabitRepository
	Tasks    *TaskRepository
	Journals *JournalRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Habits:   NewHabitRepository(db),
		Tasks:    NewTaskRepository(db),
		Journals: NewJournalRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction. Any
// error returned by fn rolls everything back and is returned unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translate("transaction", err, nil)
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// translate maps gorm failures onto the domain taxonomy. Errors that are
// already domain errors pass through untouched.
func translate(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrStorage):
		return err
	default:
		return domain.NewStorageError(op, err)
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
