// Package analytics turns a user's raw records into day-bucketed series and
// summaries. Every function is pure over its inputs and the reference
// instant; nothing is cached between calls.
package analytics

import (
	"math"
	"time"

	"lifequest/internal/dates"
)

const DefaultDays = 30

type Aggregator struct {
	cal dates.Calendar
}

func New(cal dates.Calendar) *Aggregator {
	return &Aggregator{cal: cal}
}

func (a *Aggregator) Calendar() dates.Calendar {
	return a.cal
}

// window holds the bucket boundaries for one report and answers whether an
// instant falls inside it.
type window struct {
	cal   dates.Calendar
	days  []time.Time
	start time.Time
	end   time.Time // exclusive
}

func (a *Aggregator) window(now time.Time, days int) window {
	if days <= 0 {
		days = DefaultDays
	}
	series := a.cal.Range(now, days)
	return window{
		cal:   a.cal,
		days:  series,
		start: series[0],
		end:   series[len(series)-1].AddDate(0, 0, 1),
	}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
