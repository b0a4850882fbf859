package models

// StandingsEntry is one derived row of a group table. It is recomputed from
// finished matches on demand and never stored on its own.
type StandingsEntry struct {
	Team         TeamRef `json:"team"`
	Played       int     `json:"played"`
	Won          int     `json:"won"`
	Drawn        int     `json:"drawn"`
	Lost         int     `json:"lost"`
	Points       int     `json:"points"`
	GoalsFor     int     `json:"goals_for"`
	GoalsAgainst int     `json:"goals_against"`
	GoalDiff     int     `json:"goal_diff"`
}
