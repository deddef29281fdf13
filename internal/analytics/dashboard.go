package analytics

import (
	"time"

	"lifequest/internal/domain"
	"lifequest/internal/streak"
)

type DashboardInput struct {
	User     domain.User
	Habits   []domain.Habit
	Tasks    []domain.Task
	Journals []domain.JournalEntry
}

type Overview struct {
	TotalHabits   int `json:"totalHabits"`
	ActiveHabits  int `json:"activeHabits"`
	TotalTasks    int `json:"totalTasks"`
	TotalJournals int `json:"totalJournals"`
	Points        int `json:"points"`
}

type Today struct {
	HabitsCompleted     int `json:"habitsCompleted"`
	TotalHabits         int `json:"totalHabits"`
	HabitCompletionRate int `json:"habitCompletionRate"`
	TasksCompleted      int `json:"tasksCompleted"`
	JournalEntries      int `json:"journalEntries"`
}

type Streaks struct {
	ActiveStreaks         int `json:"activeStreaks"`
	TotalActiveStreakDays int `json:"totalActiveStreakDays"`
	LongestStreak         int `json:"longestStreak"`
}

type Weekly struct {
	WeekStart       time.Time `json:"weekStart"`
	HabitsCompleted int       `json:"habitsCompleted"`
	TasksCompleted  int       `json:"tasksCompleted"`
	JournalEntries  int       `json:"journalEntries"`
}

type TaskCounts struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

type Dashboard struct {
	Overview     Overview       `json:"overview"`
	Today        Today          `json:"today"`
	Streaks      Streaks        `json:"streaks"`
	Weekly       Weekly         `json:"weekly"`
	Tasks        TaskCounts     `json:"tasks"`
	Stats        domain.Stats   `json:"stats"`
	RecentBadges []domain.Badge `json:"recentBadges"`
}

const recentBadgeCount = 3

// Dashboard summarises today, the current week and all-time totals.
// Streaks are recomputed from completions rather than read from the stored
// fields, so a habit not completed today shows a zero current streak.
func (a *Aggregator) Dashboard(in DashboardInput, now time.Time) Dashboard {
	today := a.cal.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := a.cal.StartOfWeek(now)
	isToday := func(t time.Time) bool { return !t.Before(today) && t.Before(tomorrow) }
	inWeek := func(t time.Time) bool { return !t.Before(weekStart) && t.Before(tomorrow) }

	d := Dashboard{
		Overview: Overview{
			TotalHabits:   len(in.Habits),
			TotalTasks:    len(in.Tasks),
			TotalJournals: len(in.Journals),
			Points:        in.User.Points,
		},
		Weekly:       Weekly{WeekStart: weekStart},
		Stats:        in.User.Stats,
		RecentBadges: in.User.RecentBadges(recentBadgeCount),
	}

	for _, h := range in.Habits {
		res := streak.Calculate(a.cal, h.CompletionDays(), now, h.BestStreak)
		d.Streaks.LongestStreak = max(d.Streaks.LongestStreak, res.Best)

		if !h.IsActive {
			continue
		}
		for _, c := range h.Completions {
			if inWeek(c.Day) {
				d.Weekly.HabitsCompleted++
			}
		}
		d.Overview.ActiveHabits++
		if res.Current > 0 {
			d.Today.HabitsCompleted++
			d.Streaks.ActiveStreaks++
			d.Streaks.TotalActiveStreakDays += res.Current
		}
	}
	d.Today.TotalHabits = d.Overview.ActiveHabits
	d.Today.HabitCompletionRate = percent(d.Today.HabitsCompleted, d.Today.TotalHabits)

	for _, t := range in.Tasks {
		switch {
		case t.Completed:
			d.Tasks.Completed++
			if t.CompletedAt != nil {
				if isToday(*t.CompletedAt) {
					d.Today.TasksCompleted++
				}
				if inWeek(*t.CompletedAt) {
					d.Weekly.TasksCompleted++
				}
			}
		default:
			d.Tasks.Pending++
			if t.IsOverdue(today) {
				d.Tasks.Overdue++
			}
		}
	}

	for _, j := range in.Journals {
		if isToday(j.CreatedAt) {
			d.Today.JournalEntries++
		}
		if inWeek(j.CreatedAt) {
			d.Weekly.JournalEntries++
		}
	}
	return d
}
