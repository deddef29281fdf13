package gamification

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Action string

const (
	ActionHabitComplete Action = "habit_complete"
	ActionTaskComplete  Action = "task_complete"
	ActionJournalEntry  Action = "journal_entry"
	ActionStreakBonus   Action = "streak_bonus"
)

type Trigger string

const (
	TriggerHabitStreak  Trigger = "habit_streak"
	TriggerTaskCount    Trigger = "task_count"
	TriggerJournalCount Trigger = "journal_count"
	// TriggerPoints evaluates against the ledger's point total, not the
	// value passed by the caller.
	TriggerPoints Trigger = "points"
)

var knownTriggers = map[Trigger]bool{
	TriggerHabitStreak:  true,
	TriggerTaskCount:    true,
	TriggerJournalCount: true,
	TriggerPoints:       true,
}

type Match string

const (
	MatchExact   Match = "exact"
	MatchAtLeast Match = "at_least"
)

type BadgeRule struct {
	Threshold   int    `yaml:"threshold"`
	Match       Match  `yaml:"match"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

func (r BadgeRule) matches(value int) bool {
	if r.Match == MatchAtLeast {
		return value >= r.Threshold
	}
	return value == r.Threshold
}

// Rules is the point schedule plus the ordered badge rules per trigger.
type Rules struct {
	Points map[Action]int          `yaml:"points"`
	Badges map[Trigger][]BadgeRule `yaml:"badges"`
}

func DefaultRules() Rules {
	return Rules{
		Points: map[Action]int{
			ActionHabitComplete: 20,
			ActionTaskComplete:  10,
			ActionJournalEntry:  15,
			ActionStreakBonus:   5,
		},
		Badges: map[Trigger][]BadgeRule{
			TriggerHabitStreak: {
				{Threshold: 1, Match: MatchExact, Name: "First Steps", Description: "Complete your first habit", Icon: "👟"},
				{Threshold: 7, Match: MatchExact, Name: "1 Week Warrior", Description: "7 day habit streak", Icon: "🔥"},
				{Threshold: 30, Match: MatchExact, Name: "1 Month Master", Description: "30 day habit streak", Icon: "💪"},
				{Threshold: 100, Match: MatchExact, Name: "100 Day Hero", Description: "100 day habit streak", Icon: "🏆"},
			},
			TriggerTaskCount: {
				{Threshold: 50, Match: MatchExact, Name: "Task Master", Description: "Complete 50 tasks", Icon: "✅"},
			},
			TriggerJournalCount: {
				{Threshold: 30, Match: MatchExact, Name: "Journal Writer", Description: "Write 30 journal entries", Icon: "📝"},
			},
			TriggerPoints: {
				{Threshold: 1000, Match: MatchAtLeast, Name: "1K Collector", Description: "Earn 1000 points", Icon: "💎"},
				{Threshold: 5000, Match: MatchAtLeast, Name: "5K Collector", Description: "Earn 5000 points", Icon: "🌟"},
			},
		},
	}
}

// LoadRules reads a YAML rule file. Point values in the file override the
// defaults per action; a trigger listed under badges replaces that
// trigger's default rules entirely.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read badge rules: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parse badge rules: %w", err)
	}

	rules := DefaultRules()
	for action, pts := range file.Points {
		rules.Points[action] = pts
	}
	for trigger, list := range file.Badges {
		rules.Badges[trigger] = list
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) Validate() error {
	for action, pts := range r.Points {
		if pts < 0 {
			return fmt.Errorf("points for %q must not be negative", action)
		}
	}
	names := make(map[string]Trigger)
	for trigger, list := range r.Badges {
		if !knownTriggers[trigger] {
			return fmt.Errorf("unknown badge trigger %q", trigger)
		}
		for i, rule := range list {
			if rule.Name == "" {
				return fmt.Errorf("%s rule %d: name is required", trigger, i)
			}
			if rule.Threshold <= 0 {
				return fmt.Errorf("%s rule %q: threshold must be positive", trigger, rule.Name)
			}
			if rule.Match != MatchExact && rule.Match != MatchAtLeast {
				return fmt.Errorf("%s rule %q: unknown match %q", trigger, rule.Name, rule.Match)
			}
			if other, dup := names[rule.Name]; dup {
				return fmt.Errorf("badge %q defined for both %s and %s", rule.Name, other, trigger)
			}
			names[rule.Name] = trigger
		}
	}
	return nil
}

func (r Rules) clone() Rules {
	out := Rules{
		Points: make(map[Action]int, len(r.Points)),
		Badges: make(map[Trigger][]BadgeRule, len(r.Badges)),
	}
	for k, v := range r.Points {
		out.Points[k] = v
	}
	for k, v := range r.Badges {
		out.Badges[k] = append([]BadgeRule(nil), v...)
	}
	return out
}
