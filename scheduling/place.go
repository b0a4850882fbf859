package scheduling

import (
	"github.com/Dosada05/school-tournament/models"
)

// PlaceRequest moves a single match into a chosen slot, as a manual
// drag-and-drop does. Schedule is the current set of matches; the match
// being placed is ignored there so it can be moved.
type PlaceRequest struct {
	Schedule    []models.Match
	Match       models.Match
	Slot        models.Slot
	Config      Config
	Policy      ConflictPolicy
	Eligibility Eligibility
}

// Place applies the same slot rules as Assign to one match.
func Place(req PlaceRequest) (models.Match, error) {
	if err := req.Config.Validate(); err != nil {
		return req.Match, &models.Issue{Err: models.ErrInvalidAssignment, MatchID: req.Match.ID, Detail: err.Error()}
	}
	switch req.Match.State {
	case models.StatePending, models.StateScheduled:
	default:
		return req.Match, &models.Issue{
			Err:     models.ErrInvalidAssignment,
			MatchID: req.Match.ID,
			Detail:  "only pending or scheduled matches can be moved",
		}
	}

	others := make([]models.Match, 0, len(req.Schedule))
	for _, m := range req.Schedule {
		if m.ID != req.Match.ID {
			others = append(others, m)
		}
	}
	g := newGrid(req.Config)
	g.seed(others)

	if issue := g.check(req.Match, req.Slot, req.Eligibility, req.Policy); issue != nil {
		return req.Match, issue
	}
	return req.Match.WithSlot(req.Slot), nil
}

// SlotChecker applies the placement rules to a stream of matches that arrive
// with their slot already set. Accepted slots are booked, so later matches
// see them as taken.
type SlotChecker struct {
	g      *grid
	policy ConflictPolicy
	elig   Eligibility
}

func NewSlotChecker(cfg Config, schedule []models.Match, policy ConflictPolicy, elig Eligibility) (*SlotChecker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := newGrid(cfg)
	g.seed(schedule)
	return &SlotChecker{g: g, policy: policy, elig: elig}, nil
}

// Book checks the slot of m and reserves it. Matches without a slot pass.
func (c *SlotChecker) Book(m models.Match) error {
	s, ok := m.Slot()
	if !ok {
		return nil
	}
	if issue := c.g.check(m, s, c.elig, c.policy); issue != nil {
		return issue
	}
	c.g.book(m, s)
	return nil
}

// Unschedule clears the slot of a scheduled match and returns it to pending.
func Unschedule(m models.Match) (models.Match, error) {
	if m.State != models.StateScheduled && m.State != models.StatePending {
		return m, &models.Issue{
			Err:     models.ErrInvalidTransition,
			MatchID: m.ID,
			Detail:  "only pending or scheduled matches can be unscheduled",
		}
	}
	m.Week, m.Day, m.Time = nil, nil, nil
	m.State = models.StatePending
	return m, nil
}

// FreeSlots lists the empty cells d may use, in grid order.
func FreeSlots(cfg Config, matches []models.Match, d models.Discipline, elig Eligibility) ([]models.Slot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := newGrid(cfg)
	g.seed(matches)

	var free []models.Slot
	for week := 1; week <= cfg.Weeks; week++ {
		for _, di := range EligibleDays(cfg, elig, d, week) {
			for _, t := range cfg.Times {
				s := models.Slot{Week: week, Day: cfg.Days[di], Time: t, Discipline: d}
				if _, taken := g.occupied[s]; !taken {
					free = append(free, s)
				}
			}
		}
	}
	return free, nil
}
