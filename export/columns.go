package export

import "strings"

// Column headers of the schedule workbook, in sheet order.
const (
	colID            = "ID"
	colWeek          = "Week"
	colDay           = "Day"
	colTime          = "Time"
	colGender        = "Gender"
	colLevel         = "Level"
	colCategory      = "Category"
	colGroup         = "Group"
	colPhase         = "Phase"
	colOrder         = "Order"
	colTeamACurso    = "Team A Curso"
	colTeamAParalelo = "Team A Paralelo"
	colTeamBCurso    = "Team B Curso"
	colTeamBParalelo = "Team B Paralelo"
	colState         = "State"
	colScoreA        = "Score A"
	colScoreB        = "Score B"
)

var headers = []string{
	colID, colWeek, colDay, colTime,
	colGender, colLevel, colCategory, colGroup, colPhase, colOrder,
	colTeamACurso, colTeamAParalelo, colTeamBCurso, colTeamBParalelo,
	colState, colScoreA, colScoreB,
}

var requiredHeaders = []string{colGender, colLevel, colCategory, colPhase, colTeamACurso, colTeamAParalelo, colTeamBCurso, colTeamBParalelo}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
