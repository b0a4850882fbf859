package scheduling

import (
	"fmt"

	"github.com/Dosada05/school-tournament/models"
)

// AssignRequest is the input of Assign. Matches may mix scheduled and
// unscheduled records; scheduled ones only reserve their slots.
type AssignRequest struct {
	Matches     []models.Match
	Config      Config
	Policy      ConflictPolicy
	Eligibility Eligibility // nil means PatternEligibility
}

type Unassigned struct {
	Match  models.Match  `json:"match"`
	Reason string        `json:"reason"`
	Issue  *models.Issue `json:"issue"`
}

type AssignResult struct {
	Assigned   []models.Match  `json:"assigned"`
	Unassigned []Unassigned    `json:"unassigned"`
	Errors     []*models.Issue `json:"errors"`
}

// Assign places every match lacking a slot into the weekly grid using
// day-filling rotation: per discipline, every time of the current
// (week, day) is tried before the next eligible day, and the week only
// advances once the eligible days of the week are used up. The result is
// fully determined by the inputs and their order.
func Assign(req AssignRequest) AssignResult {
	res := AssignResult{Assigned: []models.Match{}, Unassigned: []Unassigned{}, Errors: []*models.Issue{}}
	if err := req.Config.Validate(); err != nil {
		for _, m := range req.Matches {
			if !m.HasSlot() {
				res.Unassigned = append(res.Unassigned, unassigned(m, err.Error()))
			}
		}
		res.Errors = append(res.Errors, &models.Issue{Err: models.ErrInvalidAssignment, Detail: err.Error()})
		return res
	}

	g := newGrid(req.Config)
	res.Errors = append(res.Errors, g.seed(req.Matches)...)

	queues := make(map[models.Discipline][]models.Match, len(models.Disciplines))
	for _, m := range req.Matches {
		if m.HasSlot() {
			continue
		}
		if !m.Discipline.Valid() {
			res.Unassigned = append(res.Unassigned, unassigned(m, fmt.Sprintf("unknown discipline %q", m.Discipline)))
			continue
		}
		if m.State != models.StatePending {
			res.Unassigned = append(res.Unassigned, unassigned(m, fmt.Sprintf("%s match without a slot cannot be auto-assigned", m.State)))
			continue
		}
		queues[m.Discipline] = append(queues[m.Discipline], m)
	}

	for _, d := range models.Disciplines {
		queue := queues[d]
		if len(queue) == 0 {
			continue
		}
		placed, left := fillDiscipline(g, req, d, queue)
		res.Assigned = append(res.Assigned, placed...)
		for _, m := range left {
			reason := fmt.Sprintf("no free %s slot within %d week(s)", d, req.Config.Weeks)
			if req.Policy.NoDoubleBookingPerDay {
				reason += " without double-booking a team"
			}
			res.Unassigned = append(res.Unassigned, unassigned(m, reason))
		}
	}
	return res
}

func fillDiscipline(g *grid, req AssignRequest, d models.Discipline, queue []models.Match) (placed, left []models.Match) {
	for week := 1; week <= req.Config.Weeks && len(queue) > 0; week++ {
		for _, di := range EligibleDays(req.Config, req.Eligibility, d, week) {
			day := req.Config.Days[di]
			for _, t := range req.Config.Times {
				if len(queue) == 0 {
					return placed, nil
				}
				s := models.Slot{Week: week, Day: day, Time: t, Discipline: d}
				if _, taken := g.occupied[s]; taken {
					continue
				}
				for i, m := range queue {
					if g.check(m, s, req.Eligibility, req.Policy) != nil {
						continue
					}
					m = m.WithSlot(s)
					g.book(m, s)
					placed = append(placed, m)
					queue = append(queue[:i:i], queue[i+1:]...)
					break
				}
			}
		}
	}
	return placed, queue
}

func unassigned(m models.Match, reason string) Unassigned {
	return Unassigned{
		Match:  m,
		Reason: reason,
		Issue:  &models.Issue{Err: models.ErrInvalidAssignment, MatchID: m.ID, Detail: reason},
	}
}
