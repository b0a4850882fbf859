package scheduling

import (
	"fmt"
	"sort"

	"github.com/Dosada05/school-tournament/models"
)

// DayDisciplines is what may be played on one weekday.
type DayDisciplines struct {
	AlwaysOn models.Discipline `json:"always_on"`
	Rotating models.Discipline `json:"rotating"`
}

// Allows reports whether d may be scheduled that day.
func (dd DayDisciplines) Allows(d models.Discipline) bool {
	return d == dd.AlwaysOn || d == dd.Rotating
}

// DisciplinesForDay applies the parity rule: even indexes get the starting
// discipline, odd indexes the other rotating one. Football is always on.
func DisciplinesForDay(weekdayIndex int, starting models.Discipline) (DayDisciplines, error) {
	if !starting.IsRotating() {
		return DayDisciplines{}, fmt.Errorf("%w: starting discipline must be rotating, got %q", ErrInvalidConfig, starting)
	}
	if weekdayIndex < 0 {
		return DayDisciplines{}, fmt.Errorf("%w: negative weekday index %d", ErrInvalidConfig, weekdayIndex)
	}
	rotating := starting
	if weekdayIndex%2 != 0 {
		rotating = starting.OtherRotating()
	}
	return DayDisciplines{AlwaysOn: models.DisciplineFootball, Rotating: rotating}, nil
}

// Eligibility decides whether discipline d may use (week, dayIndex).
type Eligibility func(cfg Config, d models.Discipline, week, dayIndex int) bool

// PatternEligibility is the default Eligibility backed by the alternation rule.
func PatternEligibility(cfg Config, d models.Discipline, week, dayIndex int) bool {
	dd, err := DisciplinesForDay(cfg.GlobalDayIndex(week, dayIndex), cfg.StartingDiscipline)
	if err != nil {
		return false
	}
	return dd.Allows(d)
}

// EligibleDays lists the day indexes of week on which d can be played.
func EligibleDays(cfg Config, elig Eligibility, d models.Discipline, week int) []int {
	if elig == nil {
		elig = PatternEligibility
	}
	days := make([]int, 0, len(cfg.Days))
	for i := range cfg.Days {
		if elig(cfg, d, week, i) {
			days = append(days, i)
		}
	}
	return days
}

// ValidationReport is the outcome of checking a schedule against the pattern.
type ValidationReport struct {
	IsValid  bool            `json:"is_valid"`
	Errors   []*models.Issue `json:"errors"`
	Warnings []*models.Issue `json:"warnings"`
}

type dayKey struct {
	week int
	day  int
}

// Validate compares the rotating discipline actually scheduled each day with
// the expected one. Wrong rotating discipline on a day is an error; a day
// without football is a warning. Only weeks holding at least one scheduled
// match are inspected.
func Validate(cfg Config, matches []models.Match) ValidationReport {
	report := ValidationReport{Errors: []*models.Issue{}, Warnings: []*models.Issue{}}

	counts := make(map[dayKey]map[models.Discipline]int)
	weeks := make(map[int]bool)
	for _, m := range matches {
		if !m.HasSlot() {
			continue
		}
		di := cfg.DayIndex(*m.Day)
		if di < 0 {
			report.Errors = append(report.Errors, &models.Issue{
				Err:     models.ErrInvalidAssignment,
				MatchID: m.ID,
				Detail:  fmt.Sprintf("unknown day %q", *m.Day),
			})
			continue
		}
		k := dayKey{week: *m.Week, day: di}
		if counts[k] == nil {
			counts[k] = make(map[models.Discipline]int)
		}
		counts[k][m.Discipline]++
		weeks[*m.Week] = true
	}

	sortedWeeks := make([]int, 0, len(weeks))
	for w := range weeks {
		sortedWeeks = append(sortedWeeks, w)
	}
	sort.Ints(sortedWeeks)

	for _, week := range sortedWeeks {
		for di, dayName := range cfg.Days {
			k := dayKey{week: week, day: di}
			dd, err := DisciplinesForDay(cfg.GlobalDayIndex(week, di), cfg.StartingDiscipline)
			if err != nil {
				report.Errors = append(report.Errors, &models.Issue{Err: models.ErrInvalidAssignment, Detail: err.Error()})
				return report
			}
			wrong := dd.Rotating.OtherRotating()
			if n := counts[k][wrong]; n > 0 {
				report.Errors = append(report.Errors, &models.Issue{
					Err: models.ErrInvalidAssignment,
					Detail: fmt.Sprintf("week %d %s: %d %s match(es) scheduled, expected %s",
						week, dayName, n, wrong, dd.Rotating),
				})
			}
			if counts[k][models.DisciplineFootball] == 0 {
				report.Warnings = append(report.Warnings, &models.Issue{
					Err:    models.ErrInvalidAssignment,
					Detail: fmt.Sprintf("week %d %s: no football matches", week, dayName),
				})
			}
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}
