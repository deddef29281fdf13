// Package usecase holds the operations exposed by the transports. Every
// mutation that touches the points ledger runs in one transaction with the
// user row locked, so a failed write leaves no partial award behind.
package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/infrastructure/repository"
	"lifequest/internal/streak"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() repository.Page {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return repository.Page{Page: page, Limit: limit}
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

func newPagination(p repository.Page, total int64) Pagination {
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Pages: int(math.Ceil(float64(total) / float64(p.Limit))),
		Total: total,
	}
}

// requireText trims value and rejects empty or over-long input.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.NewValidationError(field, "is required")
	}
	return limitText(field, value, max)
}

func limitText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", domain.NewValidationError(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return value, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// deriveStreaks overwrites the stored streak fields with values computed
// from the completion set at now. Nothing is persisted.
func deriveStreaks(cal dates.Calendar, h *domain.Habit, now time.Time) {
	res := streak.Calculate(cal, h.CompletionDays(), now, h.BestStreak)
	h.CurrentStreak = res.Current
	h.BestStreak = res.Best
	h.CompletedToday = todaysCompletion(cal, h, now) != nil
}

func todaysCompletion(cal dates.Calendar, h *domain.Habit, now time.Time) *domain.HabitCompletion {
	for i := range h.Completions {
		if cal.SameDay(h.Completions[i].Day, now) {
			return &h.Completions[i]
		}
	}
	return nil
}
