package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidLog  = errors.New("invalid mood log data")
	ErrNoteTooLong = errors.New("note is too long (max 500 chars)")
)

const MaxNoteLen = 500

// MoodLog is a single mood entry. MoodName, MoodEmoji and MoodColor are
// read-model fields populated by catalog joins; they are never written.
type MoodLog struct {
	ID          string   `json:"id" db:"id"`
	UserID      string   `json:"user_id" db:"user_id"`
	MoodID      string   `json:"mood_id" db:"mood_id"`
	ActivityIDs []string `json:"activity_ids" db:"-"`
	Note        string   `json:"note,omitempty" db:"note"`

	LoggedAt time.Time `json:"logged_at" db:"logged_at"`

	MoodName  string `json:"mood_name,omitempty" db:"-"`
	MoodEmoji string `json:"mood_emoji,omitempty" db:"-"`
	MoodColor string `json:"mood_color,omitempty" db:"-"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewMoodLog(userID, moodID string, activityIDs []string, note string, loggedAt time.Time) (*MoodLog, error) {
	now := time.Now().UTC()

	if loggedAt.IsZero() {
		loggedAt = now
	}

	l := &MoodLog{
		UserID:      userID,
		MoodID:      moodID,
		ActivityIDs: normalizeActivityIDs(activityIDs),
		Note:        strings.TrimSpace(note),
		LoggedAt:    loggedAt.UTC(),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *MoodLog) Validate() error {
	if strings.TrimSpace(l.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidLog)
	}
	if strings.TrimSpace(l.MoodID) == "" {
		return fmt.Errorf("%w: mood_id is required", ErrInvalidLog)
	}
	if len(l.Note) > MaxNoteLen {
		return ErrNoteTooLong
	}
	if l.LoggedAt.IsZero() {
		return fmt.Errorf("%w: logged_at is required", ErrInvalidLog)
	}
	return nil
}

// Amend replaces the mutable fields of a log. A zero loggedAt keeps the
// current timestamp.
func (l *MoodLog) Amend(moodID string, activityIDs []string, note string, loggedAt time.Time) error {
	if !loggedAt.IsZero() {
		l.LoggedAt = loggedAt.UTC()
	}

	l.MoodID = moodID
	l.ActivityIDs = normalizeActivityIDs(activityIDs)
	l.Note = strings.TrimSpace(note)
	l.UpdatedAt = time.Now().UTC()

	return l.Validate()
}

// LogDay is the calendar day (midnight UTC) the entry counts for.
func (l *MoodLog) LogDay() time.Time {
	return DayOf(l.LoggedAt)
}

func normalizeActivityIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
