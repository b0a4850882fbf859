package brackets

import "github.com/Dosada05/school-tournament/models"

// NeedsTieBreak is true when the top two share points and goal difference.
// Goals for only orders the table; it never settles this tie.
func NeedsTieBreak(standings []models.StandingsEntry) bool {
	if len(standings) < 2 {
		return false
	}
	first, second := standings[0], standings[1]
	return first.Points == second.Points && first.GoalDiff == second.GoalDiff
}

// findTieBreak returns the tie-break match of group, if one was created.
func findTieBreak(matches []models.Match, group string) (models.Match, bool) {
	for _, m := range matches {
		if m.Phase == models.PhaseTieBreak && m.Group == group {
			return m, true
		}
	}
	return models.Match{}, false
}

func newTieBreak(key models.BracketKey, group string, a, b models.TeamRef) (models.Match, error) {
	return models.NewMatch(MatchID(key, models.PhaseTieBreak, group, 1), key, a, b, group, models.PhaseTieBreak, 1)
}

// TieBreakWinner is the winner of a finished tie-break match. ok is false
// for any other phase or while the match is undecided.
func TieBreakWinner(m models.Match) (models.TeamRef, bool) {
	if m.Phase != models.PhaseTieBreak || !m.IsFinished() {
		return models.TeamRef{}, false
	}
	return m.Winner()
}
