package analytics

import (
	"time"

	"lifequest/internal/domain"
	"lifequest/internal/streak"

	"github.com/google/uuid"
)

type HabitDay struct {
	Date       time.Time `json:"date"`
	Count      int       `json:"count"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
}

type HabitStat struct {
	HabitID        uuid.UUID `json:"habitId"`
	Title          string    `json:"title"`
	Color          string    `json:"color"`
	Icon           string    `json:"icon"`
	Completions    int       `json:"completions"`
	CompletionRate int       `json:"completionRate"`
	CurrentStreak  int       `json:"currentStreak"`
	BestStreak     int       `json:"bestStreak"`
	CompletedToday bool      `json:"completedToday"`
}

type HabitSummary struct {
	TotalHabits           int `json:"totalHabits"`
	TotalCompletions      int `json:"totalCompletions"`
	AverageCompletionRate int `json:"averageCompletionRate"`
	PerfectDays           int `json:"perfectDays"`
	ActiveStreaks         int `json:"activeStreaks"`
	LongestStreak         int `json:"longestStreak"`
}

type HabitReport struct {
	Days       int          `json:"days"`
	DailyStats []HabitDay   `json:"dailyStats"`
	HabitStats []HabitStat  `json:"habitStats"`
	Summary    HabitSummary `json:"summary"`
}

// Habits buckets completions of the active habits over the last days days.
// The daily percentage is completed active habits over all active habits.
func (a *Aggregator) Habits(habits []domain.Habit, days int, now time.Time) HabitReport {
	w := a.window(now, days)
	active := activeHabits(habits)

	perDay := make(map[string]int, len(w.days))
	stats := make([]HabitStat, 0, len(active))
	summary := HabitSummary{TotalHabits: len(active)}

	for _, h := range active {
		seen := make(map[string]struct{})
		for _, c := range h.Completions {
			if !w.contains(c.Day) {
				continue
			}
			key := a.cal.Key(c.Day)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			perDay[key]++
		}

		res := streak.Calculate(a.cal, h.CompletionDays(), now, h.BestStreak)
		stats = append(stats, HabitStat{
			HabitID:        h.ID,
			Title:          h.Title,
			Color:          h.Color,
			Icon:           h.Icon,
			Completions:    len(seen),
			CompletionRate: percent(len(seen), len(w.days)),
			CurrentStreak:  res.Current,
			BestStreak:     res.Best,
			CompletedToday: res.Current > 0,
		})
		summary.TotalCompletions += len(seen)
		if res.Current > 0 {
			summary.ActiveStreaks++
		}
		summary.LongestStreak = max(summary.LongestStreak, res.Best)
	}

	daily := make([]HabitDay, 0, len(w.days))
	rateSum := 0
	for _, d := range w.days {
		count := perDay[a.cal.Key(d)]
		p := percent(count, len(active))
		daily = append(daily, HabitDay{Date: d, Count: count, Total: len(active), Percentage: p})
		rateSum += p
		if len(active) > 0 && count == len(active) {
			summary.PerfectDays++
		}
	}
	summary.AverageCompletionRate = percent(rateSum, 100*len(w.days))

	return HabitReport{Days: len(w.days), DailyStats: daily, HabitStats: stats, Summary: summary}
}

func activeHabits(habits []domain.Habit) []domain.Habit {
	out := make([]domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out
}
