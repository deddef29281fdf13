// Package gamification awards points and unlocks badges against a user's
// ledger. The engine only mutates the in-memory ledger; callers persist it
// in the same transaction as the change that triggered it.
package gamification

import (
	"time"

	"lifequest/internal/domain"
)

type Engine struct {
	rules Rules
}

// NewEngine validates and copies rules; later changes to the argument do
// not affect the engine.
func NewEngine(rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rules: rules.clone()}, nil
}

func NewDefaultEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// Rules returns a copy of the active rule set.
func (e *Engine) Rules() Rules {
	return e.rules.clone()
}

// PointsFor resolves custom, then the schedule, then zero.
func (e *Engine) PointsFor(action Action, custom *int) int {
	if custom != nil {
		return *custom
	}
	return e.rules.Points[action]
}

// AwardPoints adds the resolved amount to the ledger and returns it.
func (e *Engine) AwardPoints(u *domain.User, action Action, custom *int) int {
	amount := e.PointsFor(action, custom)
	if amount < 0 {
		amount = 0
	}
	u.Points += amount
	return amount
}

// RevokePoints is the compensating half of AwardPoints. The total never
// drops below zero; the amount actually removed is returned.
func (e *Engine) RevokePoints(u *domain.User, amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > u.Points {
		amount = u.Points
	}
	u.Points -= amount
	return amount
}

// CheckBadges evaluates the rules for trigger and appends every badge that
// unlocks and is not yet held. Re-triggering an earned badge is a no-op.
func (e *Engine) CheckBadges(u *domain.User, trigger Trigger, value int, now time.Time) []domain.Badge {
	if trigger == TriggerPoints {
		value = u.Points
	}

	var unlocked []domain.Badge
	for _, rule := range e.rules.Badges[trigger] {
		if !rule.matches(value) || u.HasBadge(rule.Name) {
			continue
		}
		badge := domain.Badge{
			UserID:      u.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Icon:        rule.Icon,
			EarnedAt:    now.UTC(),
		}
		u.Badges = append(u.Badges, badge)
		unlocked = append(unlocked, badge)
	}
	if unlocked == nil {
		return []domain.Badge{}
	}
	return unlocked
}
