// Package streak derives current and best streaks from completion days.
package streak

import (
	"sort"
	"time"

	"lifequest/internal/dates"
)

type Result struct {
	Current int `json:"currentStreak"`
	Best    int `json:"bestStreak"`
}

// Calculate counts consecutive completed days ending today. A day without a
// completion today yields zero; yesterday does not keep a streak open.
// Best is max(previousBest, Current) and never decreases. Completions after
// today are ignored.
func Calculate(cal dates.Calendar, completions []time.Time, now time.Time, previousBest int) Result {
	current := Current(cal, completions, now)
	best := previousBest
	if current > best {
		best = current
	}
	if best < 0 {
		best = 0
	}
	return Result{Current: current, Best: best}
}

// Current returns only the current streak.
func Current(cal dates.Calendar, completions []time.Time, now time.Time) int {
	days := uniqueDaysDesc(cal, completions, now)
	today := cal.StartOfDay(now)

	streak := 0
	for i, day := range days {
		if !day.Equal(today.AddDate(0, 0, -i)) {
			break
		}
		streak++
	}
	return streak
}

// Longest returns the longest run of consecutive days in the set, ignoring
// days after now.
func Longest(cal dates.Calendar, completions []time.Time, now time.Time) int {
	days := uniqueDaysDesc(cal, completions, now)
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

func uniqueDaysDesc(cal dates.Calendar, completions []time.Time, now time.Time) []time.Time {
	today := cal.StartOfDay(now)
	seen := make(map[string]struct{}, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		day := cal.StartOfDay(c)
		if day.After(today) {
			continue
		}
		key := cal.Key(day)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
