package repository

import (
	"context"
	"time"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

type JournalFilter struct {
	Search string
	Mood   domain.Mood
	From   *time.Time
	To     *time.Time // exclusive
	Page
}

func (r *JournalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	return translate("create journal entry", err, nil)
}

func (r *JournalRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error
	if err != nil {
		return nil, translate("get journal entry", err, domain.ErrJournalNotFound)
	}
	return &entry, nil
}

// List returns one page, newest first, with the unpaginated total.
func (r *JournalRepository) List(ctx context.Context, userID uuid.UUID, f JournalFilter) ([]domain.JournalEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.JournalEntry{}).Where("user_id = ?", userID)
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", p, p)
	}
	if f.Mood != "" {
		q = q.Where("mood = ?", f.Mood)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.UTC())
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count journal entries", err, nil)
	}

	var entries []domain.JournalEntry
	err := q.Order("created_at desc").
		Offset(f.offset()).
		Limit(f.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, translate("list journal entries", err, nil)
	}
	return entries, total, nil
}

// ListSince returns every entry created at or after since, oldest first.
func (r *JournalRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at asc").
		Find(&entries).Error
	return entries, translate("list journal entries", err, nil)
}

func (r *JournalRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, translate("list journal entries", err, nil)
}

var journalColumns = []string{
	"title", "content", "mood", "mood_score", "tags",
	"is_private", "weather", "location", "updated_at",
}

func (r *JournalRepository) Update(ctx context.Context, entry *domain.JournalEntry) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", entry.UserID).
		Select(journalColumns).
		Updates(entry)
	if res.Error != nil {
		return translate("update journal entry", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}

func (r *JournalRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.JournalEntry{})
	if res.Error != nil {
		return translate("delete journal entry", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}
