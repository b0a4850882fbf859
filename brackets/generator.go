package brackets

import (
	"fmt"
	"strings"

	"github.com/Dosada05/school-tournament/models"
)

type GenerateGroupParams struct {
	Key   models.BracketKey
	Group string
	Teams []models.TeamRef
}

// GroupStageGenerator produces the group-phase matches of one group.
type GroupStageGenerator interface {
	GenerateGroup(params GenerateGroupParams) ([]models.Match, error)

	GetName() string
}

// GeneratorFor picks the format by group size: two teams play two legs,
// bigger groups a single round robin.
func GeneratorFor(groupSize int) GroupStageGenerator {
	if groupSize == 2 {
		return NewTwoLeggedGenerator()
	}
	return NewRoundRobinGenerator()
}

// MatchID builds the deterministic ID of a generated match. Re-running the
// generator yields the same IDs, so a store keyed by ID rejects duplicates.
// The order is zero padded so IDs of one group sort in play order.
func MatchID(key models.BracketKey, phase models.Phase, group string, order int) string {
	parts := []string{string(key.Discipline), key.Gender, key.Level, key.Category, string(phase)}
	if group != "" {
		parts = append(parts, group)
	}
	parts = append(parts, fmt.Sprintf("%03d", order))
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(p)), " ", "_")
	}
	return strings.Join(parts, ":")
}
