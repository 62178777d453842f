package domain

import (
	"sort"
	"time"
)

// DateLayout is the wire format for day-granularity dates.
const DateLayout = "2006-01-02"

// MoodStreak tracks consecutive calendar days with at least one mood log.
// Every date field is a day value normalized to midnight UTC; streak math
// never looks at hours or minutes.
type MoodStreak struct {
	UserID        string     `json:"user_id" db:"user_id"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	LastLogDate   *time.Time `json:"last_log_date" db:"last_log_date"`
	IsActive      bool       `json:"is_active" db:"is_active"`

	CurrentStartDate time.Time `json:"current_streak_start_date" db:"current_start_date"`
	LongestStartDate time.Time `json:"longest_streak_start_date" db:"longest_start_date"`
	LongestEndDate   time.Time `json:"longest_streak_end_date" db:"longest_end_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DayOf truncates t to its calendar day, midnight UTC.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b,
// negative when b is the earlier day.
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// AdvanceStreak folds one log into the streak state and returns an updated
// copy; the input is never mutated and the function never fails. Passing
// nil (no state yet) or a state without a last log date starts a fresh
// one-day streak on the log's day.
//
// The decision is driven by the calendar-day gap between the last log and
// the new one: 0 keeps the counters as they are (repeat logs on the same
// day are idempotent), 1 extends the current streak, more than 1 resets it
// to a fresh run of one. A negative gap means a backdated or out-of-order
// log and is treated like 0 so counters never move backwards.
func AdvanceStreak(existing *MoodStreak, userID string, loggedAt time.Time) *MoodStreak {
	logDay := DayOf(loggedAt)
	now := time.Now().UTC()

	if existing == nil || existing.LastLogDate == nil {
		s := &MoodStreak{
			UserID:           userID,
			CurrentStreak:    1,
			LongestStreak:    1,
			LastLogDate:      &logDay,
			IsActive:         true,
			CurrentStartDate: logDay,
			LongestStartDate: logDay,
			LongestEndDate:   logDay,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if existing != nil && !existing.CreatedAt.IsZero() {
			s.CreatedAt = existing.CreatedAt
		}
		return s
	}

	s := *existing
	lastDay := DayOf(*existing.LastLogDate)
	gap := DaysBetween(lastDay, logDay)

	switch {
	case gap <= 0:
		// Same day, or a backdated log: counters stay put and the last
		// log date keeps the later of the two days.
		s.LastLogDate = &lastDay

	case gap == 1:
		s.CurrentStreak++
		s.LastLogDate = &logDay
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
			s.LongestStartDate = s.CurrentStartDate
			s.LongestEndDate = logDay
		}

	default:
		// Broken streak: a fresh one-day run starts here. The longest
		// record is untouched.
		s.CurrentStreak = 1
		s.CurrentStartDate = logDay
		s.LastLogDate = &logDay
	}

	s.IsActive = true
	s.UpdatedAt = now
	return &s
}

// RebuildStreak recomputes the full streak state from the set of log days,
// deduplicating and sorting first. Used after a log is edited or removed,
// when the incremental path cannot know what changed. Returns nil for an
// empty set.
//
// When several runs tie for longest, the earliest one keeps the record,
// which is exactly what folding the same days through AdvanceStreak
// one by one produces.
func RebuildStreak(userID string, days []time.Time) *MoodStreak {
	if len(days) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(days))
	var unique []time.Time
	for _, d := range days {
		day := DayOf(d)
		key := day.Format(DateLayout)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, day)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Before(unique[j])
	})

	current, currentStart := 1, unique[0]
	longest, longestStart, longestEnd := 1, unique[0], unique[0]

	for i := 1; i < len(unique); i++ {
		if DaysBetween(unique[i-1], unique[i]) == 1 {
			current++
		} else {
			current = 1
			currentStart = unique[i]
		}

		if current > longest {
			longest = current
			longestStart = currentStart
			longestEnd = unique[i]
		}
	}

	lastDay := unique[len(unique)-1]
	now := time.Now().UTC()

	return &MoodStreak{
		UserID:           userID,
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastLogDate:      &lastDay,
		IsActive:         true,
		CurrentStartDate: currentStart,
		LongestStartDate: longestStart,
		LongestEndDate:   longestEnd,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
