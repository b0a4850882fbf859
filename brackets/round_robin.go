package brackets

import (
	"fmt"

	"github.com/Dosada05/school-tournament/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() GroupStageGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateGroup creates a single round robin using the circle method, so
// consecutive matches spread over different teams. An odd group gets a
// dummy slot and the team drawn against it rests that round.
func (g *RoundRobinGenerator) GenerateGroup(params GenerateGroupParams) ([]models.Match, error) {
	n := len(params.Teams)
	if n < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough teams in group %q (found %d, min 2 required)", params.Group, n)
	}

	// -1 is the rest slot
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	if n%2 != 0 {
		slots = append(slots, -1)
	}
	size := len(slots)
	half := size / 2

	matches := make([]models.Match, 0, n*(n-1)/2)
	order := 0
	for round := 1; round < size; round++ {
		for i := 0; i < half; i++ {
			home, away := slots[i], slots[size-1-i]
			if home < 0 || away < 0 {
				continue
			}
			order++
			m, err := models.NewMatch(
				MatchID(params.Key, models.PhaseGroup, params.Group, order),
				params.Key, params.Teams[home], params.Teams[away],
				params.Group, models.PhaseGroup, order,
			)
			if err != nil {
				return nil, fmt.Errorf("RoundRobinGenerator: group %q: %w", params.Group, err)
			}
			matches = append(matches, m)
		}
		// keep the first slot fixed, rotate the rest clockwise
		rotated := make([]int, 0, size)
		rotated = append(rotated, slots[0], slots[size-1])
		rotated = append(rotated, slots[1:size-1]...)
		slots = rotated
	}

	return matches, nil
}

type TwoLeggedGenerator struct{}

func NewTwoLeggedGenerator() GroupStageGenerator {
	return &TwoLeggedGenerator{}
}

func (g *TwoLeggedGenerator) GetName() string {
	return "TwoLegged"
}

// GenerateGroup creates home and away legs for a two-team group.
func (g *TwoLeggedGenerator) GenerateGroup(params GenerateGroupParams) ([]models.Match, error) {
	if len(params.Teams) != 2 {
		return nil, fmt.Errorf("TwoLeggedGenerator: group %q needs exactly 2 teams, found %d", params.Group, len(params.Teams))
	}
	a, b := params.Teams[0], params.Teams[1]

	first, err := models.NewMatch(
		MatchID(params.Key, models.PhaseTwoLeggedFirst, params.Group, 1),
		params.Key, a, b, params.Group, models.PhaseTwoLeggedFirst, 1,
	)
	if err != nil {
		return nil, fmt.Errorf("TwoLeggedGenerator: first leg: %w", err)
	}
	second, err := models.NewMatch(
		MatchID(params.Key, models.PhaseTwoLeggedSecond, params.Group, 2),
		params.Key, b, a, params.Group, models.PhaseTwoLeggedSecond, 2,
	)
	if err != nil {
		return nil, fmt.Errorf("TwoLeggedGenerator: second leg: %w", err)
	}
	return []models.Match{first, second}, nil
}
