package domain

import (
	"errors"
	"math"
	"strconv"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period (must be day, week, or month)")

type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// PeriodWindow is an inclusive day-granularity range. Start and End are
// midnight-UTC day values; a timestamp belongs to the window when its day
// falls anywhere from Start through End.
type PeriodWindow struct {
	Kind  PeriodKind `json:"kind"`
	Start time.Time  `json:"start_date"`
	End   time.Time  `json:"end_date"`
}

// WindowFor computes the canonical window containing anchor: the calendar
// day itself, the Monday..Sunday week, or the calendar month. All day math
// is UTC.
func WindowFor(kind PeriodKind, anchor time.Time) (PeriodWindow, error) {
	day := DayOf(anchor)

	switch kind {
	case PeriodDay:
		return PeriodWindow{Kind: kind, Start: day, End: day}, nil

	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		start := day.AddDate(0, 0, -offset)
		return PeriodWindow{Kind: kind, Start: start, End: start.AddDate(0, 0, 6)}, nil

	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return PeriodWindow{Kind: kind, Start: start, End: start.AddDate(0, 1, -1)}, nil

	default:
		return PeriodWindow{}, ErrInvalidPeriod
	}
}

// Contains reports whether t falls on a day inside the window.
func (w PeriodWindow) Contains(t time.Time) bool {
	day := DayOf(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Days returns how many calendar days the window spans.
func (w PeriodWindow) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Categories is the canonical ordered bucket-key list for the window:
// hours "0".."23" for a day, the seven weekday names starting at the
// window's first day for a week, one ISO date per day for a month.
func (w PeriodWindow) Categories() []string {
	switch w.Kind {
	case PeriodDay:
		keys := make([]string, 24)
		for h := range keys {
			keys[h] = strconv.Itoa(h)
		}
		return keys

	case PeriodWeek:
		keys := make([]string, 7)
		for i := range keys {
			keys[i] = w.Start.AddDate(0, 0, i).Weekday().String()
		}
		return keys

	default:
		keys := make([]string, 0, w.Days())
		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			keys = append(keys, d.Format(DateLayout))
		}
		return keys
	}
}

func (w PeriodWindow) bucketKey(t time.Time) string {
	switch w.Kind {
	case PeriodDay:
		return strconv.Itoa(t.UTC().Hour())
	case PeriodWeek:
		return t.UTC().Weekday().String()
	default:
		return DayOf(t).Format(DateLayout)
	}
}

type LogBucket struct {
	Key   string     `json:"key"`
	Count int        `json:"count"`
	Logs  []*MoodLog `json:"logs"`
}

// BucketLogs distributes logs across the window's canonical buckets. Every
// bucket is present even when it stays empty, logs outside the window fall
// into no bucket at all, and input order is preserved inside each bucket.
func BucketLogs(logs []*MoodLog, w PeriodWindow) []LogBucket {
	keys := w.Categories()

	index := make(map[string]int, len(keys))
	buckets := make([]LogBucket, len(keys))
	for i, key := range keys {
		buckets[i] = LogBucket{Key: key, Logs: []*MoodLog{}}
		index[key] = i
	}

	for _, l := range logs {
		if !w.Contains(l.LoggedAt) {
			continue
		}
		i, ok := index[w.bucketKey(l.LoggedAt)]
		if !ok {
			continue
		}
		buckets[i].Count++
		buckets[i].Logs = append(buckets[i].Logs, l)
	}

	return buckets
}

type MoodCount struct {
	Count      int    `json:"count"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Percentage int    `json:"percentage"`
}

type PeriodSummary struct {
	TotalLogs  int                  `json:"total_logs"`
	MoodCounts map[string]MoodCount `json:"mood_counts"`
	Categories []string             `json:"categories"`
}

// SummarizeLogs tallies mood frequency over the supplied logs, keyed by
// mood name. Percentages round half away from zero; with no logs at all
// every count stays zero and Categories is still fully populated.
func SummarizeLogs(logs []*MoodLog, w PeriodWindow) PeriodSummary {
	summary := PeriodSummary{
		TotalLogs:  len(logs),
		MoodCounts: make(map[string]MoodCount),
		Categories: w.Categories(),
	}

	for _, l := range logs {
		mc := summary.MoodCounts[l.MoodName]
		mc.Count++
		mc.Emoji = l.MoodEmoji
		mc.Color = l.MoodColor
		summary.MoodCounts[l.MoodName] = mc
	}

	if summary.TotalLogs == 0 {
		return summary
	}

	for name, mc := range summary.MoodCounts {
		mc.Percentage = int(math.Round(float64(mc.Count) / float64(summary.TotalLogs) * 100))
		summary.MoodCounts[name] = mc
	}

	return summary
}
