package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/school-tournament/models"
)

var ErrInvalidConfig = errors.New("invalid schedule configuration")

// Config is the injected weekly grid definition. Every engine call takes it
// explicitly; nothing in this package keeps it around.
type Config struct {
	Days               []string          `json:"days" yaml:"days"`
	Times              []string          `json:"times" yaml:"times"`
	Weeks              int               `json:"weeks" yaml:"weeks"`
	StartingDiscipline models.Discipline `json:"starting_discipline" yaml:"starting_discipline"`
}

func DefaultConfig() Config {
	return Config{
		Days:               []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Times:              []string{"07:30", "09:00", "10:30", "12:00"},
		Weeks:              4,
		StartingDiscipline: models.DisciplineVolleyball,
	}
}

func (c Config) Validate() error {
	if len(c.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidConfig)
	}
	if err := uniqueNonEmpty("day", c.Days); err != nil {
		return err
	}
	if len(c.Times) == 0 {
		return fmt.Errorf("%w: at least one time slot is required", ErrInvalidConfig)
	}
	if err := uniqueNonEmpty("time", c.Times); err != nil {
		return err
	}
	if c.Weeks < 1 {
		return fmt.Errorf("%w: weeks must be positive, got %d", ErrInvalidConfig, c.Weeks)
	}
	if !c.StartingDiscipline.IsRotating() {
		return fmt.Errorf("%w: starting discipline must be volleyball or basketball, got %q", ErrInvalidConfig, c.StartingDiscipline)
	}
	return nil
}

func uniqueNonEmpty(what string, values []string) error {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: empty %s", ErrInvalidConfig, what)
		}
		if seen[v] {
			return fmt.Errorf("%w: duplicate %s %q", ErrInvalidConfig, what, v)
		}
		seen[v] = true
	}
	return nil
}

// DayIndex returns the position of day in c.Days, or -1.
func (c Config) DayIndex(day string) int {
	for i, d := range c.Days {
		if d == day {
			return i
		}
	}
	return -1
}

func (c Config) hasTime(t string) bool {
	for _, ct := range c.Times {
		if ct == t {
			return true
		}
	}
	return false
}

// GlobalDayIndex numbers days across the whole horizon so the rotating
// discipline keeps alternating from one week into the next.
func (c Config) GlobalDayIndex(week, dayIndex int) int {
	return (week-1)*len(c.Days) + dayIndex
}

// Contains reports whether s is a cell of the configured grid.
func (c Config) Contains(s models.Slot) bool {
	return s.Week >= 1 && s.Week <= c.Weeks && c.DayIndex(s.Day) >= 0 && c.hasTime(s.Time) && s.Discipline.Valid()
}
