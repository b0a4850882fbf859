package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/xuri/excelize/v2"
)

var ErrNoDisciplineSheets = errors.New("workbook has no discipline sheets")

// RowError is one rejected spreadsheet row. Row is 1-based as shown in the sheet.
type RowError struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Err   string `json:"error"`
}

// MatchRow is a parsed match and where it came from.
type MatchRow struct {
	Sheet string
	Row   int
	Match models.Match
}

// Reject reports the row as rejected for err.
func (r MatchRow) Reject(err error) RowError {
	return RowError{Sheet: r.Sheet, Row: r.Row, Err: err.Error()}
}

// ReadMatches parses every sheet named after a discipline. Rows that fail
// validation are reported and skipped; the rest are returned in sheet order.
// Matches without an ID keep an empty ID for the caller to assign.
func ReadMatches(r io.Reader) ([]MatchRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	var (
		matches []MatchRow
		rejects []RowError
		found   bool
	)
	for _, sheet := range f.GetSheetList() {
		d, err := models.ParseDiscipline(sheet)
		if err != nil {
			continue
		}
		found = true

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		cols, err := headerIndex(rows[0])
		if err != nil {
			rejects = append(rejects, RowError{Sheet: sheet, Row: 1, Err: err.Error()})
			continue
		}
		for i, row := range rows[1:] {
			if blank(row) {
				continue
			}
			m, err := parseRow(d, cols, row)
			if err != nil {
				rejects = append(rejects, RowError{Sheet: sheet, Row: i + 2, Err: err.Error()})
				continue
			}
			matches = append(matches, MatchRow{Sheet: sheet, Row: i + 2, Match: m})
		}
	}
	if !found {
		return nil, nil, ErrNoDisciplineSheets
	}
	return matches, rejects, nil
}

type columns map[string]int

func (c columns) get(row []string, name string) string {
	i, ok := c[normalizeHeader(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func headerIndex(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := cols[normalizeHeader(h)]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(d models.Discipline, cols columns, row []string) (models.Match, error) {
	key := models.BracketKey{
		Discipline: d,
		Gender:     cols.get(row, colGender),
		Level:      cols.get(row, colLevel),
		Category:   cols.get(row, colCategory),
	}
	side := func(curso, paralelo string) models.TeamRef {
		c, p := cols.get(row, curso), cols.get(row, paralelo)
		if c == "" && p == "" {
			return models.TeamRef{}
		}
		return models.TeamRef{Curso: c, Paralelo: p, Gender: key.Gender, Level: key.Level, Category: key.Category}
	}

	m := models.Match{
		ID:         cols.get(row, colID),
		Discipline: d,
		Gender:     key.Gender,
		Level:      key.Level,
		Category:   key.Category,
		TeamA:      side(colTeamACurso, colTeamAParalelo),
		TeamB:      side(colTeamBCurso, colTeamBParalelo),
		Group:      cols.get(row, colGroup),
		Phase:      models.Phase(strings.ToLower(cols.get(row, colPhase))),
		State:      models.StatePending,
	}

	var err error
	if m.Order, err = optionalInt(cols.get(row, colOrder), 0); err != nil {
		return models.Match{}, fmt.Errorf("order: %w", err)
	}

	week, day, t := cols.get(row, colWeek), cols.get(row, colDay), cols.get(row, colTime)
	switch {
	case week == "" && day == "" && t == "":
	case week == "" || day == "" || t == "":
		return models.Match{}, errors.New("week, day and time must be given together")
	default:
		w, err := strconv.Atoi(week)
		if err != nil {
			return models.Match{}, fmt.Errorf("week: %w", err)
		}
		m = m.WithSlot(models.Slot{Week: w, Day: day, Time: t, Discipline: d})
	}

	if s := cols.get(row, colState); s != "" {
		m.State = models.MatchState(strings.ToLower(s))
	}
	if a, b := cols.get(row, colScoreA), cols.get(row, colScoreB); a != "" || b != "" {
		sa, errA := strconv.Atoi(a)
		sb, errB := strconv.Atoi(b)
		if errA != nil || errB != nil {
			return models.Match{}, fmt.Errorf("scores must both be integers, got %q and %q", a, b)
		}
		m.ScoreA, m.ScoreB = &sa, &sb
		if m.State == models.StateFinished {
			if err := m.ValidateScores(sa, sb); err != nil {
				return models.Match{}, err
			}
		}
	}

	// id is only required once the caller has assigned one
	check := m
	if check.ID == "" {
		check.ID = "import"
	}
	if err := check.Validate(); err != nil {
		return models.Match{}, err
	}
	return m, nil
}

func optionalInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
