package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrMoodNameEmpty         = errors.New("mood name cannot be empty")
	ErrMoodNameTooLong       = errors.New("mood name is too long (max 50 chars)")
	ErrMoodEmojiEmpty        = errors.New("mood emoji cannot be empty")
	ErrInvalidColor          = errors.New("invalid color format (must be #RRGGBB)")
	ErrMoodNotFound          = errors.New("mood not found")
	ErrMoodAlreadyExists     = errors.New("a mood with this name already exists")
	ErrMoodInUse             = errors.New("mood is referenced by existing logs")
	ErrActivityNameEmpty     = errors.New("activity name cannot be empty")
	ErrActivityNameTooLong   = errors.New("activity name is too long (max 50 chars)")
	ErrActivityIconEmpty     = errors.New("activity icon cannot be empty")
	ErrActivityNotFound      = errors.New("activity not found")
	ErrActivityAlreadyExists = errors.New("an activity with this name already exists")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const MaxNameLen = 50

// Mood is a catalog entry users pick from when logging. The catalog is
// global: every log references a mood by id and inherits its display
// attributes (name, emoji, color) in read models.
type Mood struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Emoji     string    `json:"emoji" db:"emoji"`
	Color     string    `json:"color" db:"color"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validateMood(name, emoji, color string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMoodNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return ErrMoodNameTooLong
	}
	if strings.TrimSpace(emoji) == "" {
		return ErrMoodEmojiEmpty
	}
	if !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

func NewMood(name, emoji, color string, sortOrder int) (*Mood, error) {
	name = strings.TrimSpace(name)
	emoji = strings.TrimSpace(emoji)

	if err := validateMood(name, emoji, color); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Mood{
		ID:        uuid.NewString(),
		Name:      name,
		Emoji:     emoji,
		Color:     color,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (m *Mood) Update(name, emoji, color string, sortOrder int) error {
	name = strings.TrimSpace(name)
	emoji = strings.TrimSpace(emoji)

	if err := validateMood(name, emoji, color); err != nil {
		return err
	}

	m.Name = name
	m.Emoji = emoji
	m.Color = color
	m.SortOrder = sortOrder
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Activity is an optional tag attached to a log ("work", "exercise", ...).
type Activity struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func validateActivity(name, icon string) error {
	if strings.TrimSpace(name) == "" {
		return ErrActivityNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return ErrActivityNameTooLong
	}
	if strings.TrimSpace(icon) == "" {
		return ErrActivityIconEmpty
	}
	return nil
}

func NewActivity(name, icon string, sortOrder int) (*Activity, error) {
	name = strings.TrimSpace(name)
	icon = strings.TrimSpace(icon)

	if err := validateActivity(name, icon); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Activity{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      icon,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *Activity) Update(name, icon string, sortOrder int) error {
	name = strings.TrimSpace(name)
	icon = strings.TrimSpace(icon)

	if err := validateActivity(name, icon); err != nil {
		return err
	}

	a.Name = name
	a.Icon = icon
	a.SortOrder = sortOrder
	a.UpdatedAt = time.Now().UTC()
	return nil
}
