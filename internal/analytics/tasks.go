package analytics

import (
	"time"

	"lifequest/internal/domain"
)

type TaskDay struct {
	Date    time.Time `json:"date"`
	Count   int       `json:"count"`
	Created int       `json:"created"`
}

type PriorityStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type TaskSummary struct {
	TotalTasks        int                              `json:"totalTasks"`
	CompletedTasks    int                              `json:"completedTasks"`
	PendingTasks      int                              `json:"pendingTasks"`
	OverdueTasks      int                              `json:"overdueTasks"`
	CompletedInWindow int                              `json:"completedInWindow"`
	CompletionRate    int                              `json:"completionRate"`
	ByPriority        map[domain.Priority]PriorityStat `json:"byPriority"`
}

type TaskReport struct {
	Days       int         `json:"days"`
	DailyStats []TaskDay   `json:"dailyStats"`
	Summary    TaskSummary `json:"summary"`
}

// Tasks counts completions per day by completedAt. Totals in the summary
// cover every task the caller passed in.
func (a *Aggregator) Tasks(tasks []domain.Task, days int, now time.Time) TaskReport {
	w := a.window(now, days)
	today := a.cal.StartOfDay(now)

	completedPerDay := make(map[string]int)
	createdPerDay := make(map[string]int)
	summary := TaskSummary{
		TotalTasks: len(tasks),
		ByPriority: map[domain.Priority]PriorityStat{
			domain.PriorityLow:    {},
			domain.PriorityMedium: {},
			domain.PriorityHigh:   {},
		},
	}

	for _, t := range tasks {
		ps := summary.ByPriority[t.Priority]
		ps.Total++
		if t.Completed {
			summary.CompletedTasks++
			ps.Completed++
			if t.CompletedAt != nil && w.contains(*t.CompletedAt) {
				completedPerDay[a.cal.Key(*t.CompletedAt)]++
				summary.CompletedInWindow++
			}
		} else {
			summary.PendingTasks++
		}
		if t.Priority.Valid() {
			summary.ByPriority[t.Priority] = ps
		}
		if t.IsOverdue(today) {
			summary.OverdueTasks++
		}
		if w.contains(t.CreatedAt) {
			createdPerDay[a.cal.Key(t.CreatedAt)]++
		}
	}
	summary.CompletionRate = percent(summary.CompletedTasks, summary.TotalTasks)

	daily := make([]TaskDay, 0, len(w.days))
	for _, d := range w.days {
		key := a.cal.Key(d)
		daily = append(daily, TaskDay{Date: d, Count: completedPerDay[key], Created: createdPerDay[key]})
	}
	return TaskReport{Days: len(w.days), DailyStats: daily, Summary: summary}
}
