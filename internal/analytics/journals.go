package analytics

import (
	"time"

	"lifequest/internal/domain"
)

type JournalDay struct {
	Date    time.Time `json:"date"`
	AvgMood float64   `json:"avgMood"`
	Count   int       `json:"count"`
}

type MoodStat struct {
	Mood         domain.Mood `json:"mood"`
	Count        int         `json:"count"`
	AvgMoodScore float64     `json:"avgMoodScore"`
}

type JournalSummary struct {
	TotalEntries     int         `json:"totalEntries"`
	AverageMood      float64     `json:"averageMood"`
	DaysWithEntries  int         `json:"daysWithEntries"`
	MostCommonMood   domain.Mood `json:"mostCommonMood,omitempty"`
	MoodDistribution []MoodStat  `json:"moodDistribution"`
}

type JournalReport struct {
	Days       int            `json:"days"`
	DailyStats []JournalDay   `json:"dailyStats"`
	Summary    JournalSummary `json:"summary"`
}

// Journals averages mood scores per day. A day without entries reports
// avgMood 0 and count 0.
func (a *Aggregator) Journals(entries []domain.JournalEntry, days int, now time.Time) JournalReport {
	w := a.window(now, days)

	type acc struct{ sum, n int }
	perDay := make(map[string]*acc)
	total := acc{}
	var inWindow []domain.JournalEntry

	for _, e := range entries {
		if !w.contains(e.CreatedAt) {
			continue
		}
		inWindow = append(inWindow, e)
		key := a.cal.Key(e.CreatedAt)
		d, ok := perDay[key]
		if !ok {
			d = &acc{}
			perDay[key] = d
		}
		score := e.EffectiveMoodScore()
		d.sum += score
		d.n++
		total.sum += score
		total.n++
	}

	daily := make([]JournalDay, 0, len(w.days))
	for _, d := range w.days {
		day := JournalDay{Date: d}
		if v, ok := perDay[a.cal.Key(d)]; ok && v.n > 0 {
			day.AvgMood = round2(float64(v.sum) / float64(v.n))
			day.Count = v.n
		}
		daily = append(daily, day)
	}

	summary := JournalSummary{
		TotalEntries:     total.n,
		DaysWithEntries:  len(perDay),
		MoodDistribution: moodStats(inWindow),
	}
	if total.n > 0 {
		summary.AverageMood = round2(float64(total.sum) / float64(total.n))
	}
	best := 0
	for _, m := range summary.MoodDistribution {
		if m.Count > best {
			best = m.Count
			summary.MostCommonMood = m.Mood
		}
	}

	return JournalReport{Days: len(w.days), DailyStats: daily, Summary: summary}
}

// MoodStats groups the entries of the window by mood, lowest mood first.
// Moods without entries are omitted.
func (a *Aggregator) MoodStats(entries []domain.JournalEntry, days int, now time.Time) []MoodStat {
	w := a.window(now, days)
	var inWindow []domain.JournalEntry
	for _, e := range entries {
		if w.contains(e.CreatedAt) {
			inWindow = append(inWindow, e)
		}
	}
	return moodStats(inWindow)
}

func moodStats(entries []domain.JournalEntry) []MoodStat {
	counts := make(map[domain.Mood]int)
	sums := make(map[domain.Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
		sums[e.Mood] += e.EffectiveMoodScore()
	}
	out := make([]MoodStat, 0, len(counts))
	for _, m := range domain.Moods {
		if counts[m] == 0 {
			continue
		}
		out = append(out, MoodStat{
			Mood:         m,
			Count:        counts[m],
			AvgMoodScore: round2(float64(sums[m]) / float64(counts[m])),
		})
	}
	return out
}
