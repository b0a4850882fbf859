package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteSchedule renders matches into a workbook with one sheet per
// discipline. Rows follow the grid: week, then the configured day and time
// order; unscheduled matches come last ordered by id.
func WriteSchedule(w io.Writer, cfg scheduling.Config, matches []models.Match) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	byDiscipline := make(map[models.Discipline][]models.Match)
	for _, m := range matches {
		byDiscipline[m.Discipline] = append(byDiscipline[m.Discipline], m)
	}

	for i, d := range models.Disciplines {
		sheet := string(d)
		// the first discipline takes over the default sheet
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		header := make([]interface{}, len(headers))
		for i, h := range headers {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet, err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sheet, err)
		}

		rows := byDiscipline[d]
		sortForSheet(cfg, rows)
		for i, m := range rows {
			axis, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			row := matchRow(m)
			if err := f.SetSheetRow(sheet, axis, &row); err != nil {
				return fmt.Errorf("failed to write match %s: %w", m.ID, err)
			}
		}
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func matchRow(m models.Match) []interface{} {
	var week, scoreA, scoreB interface{} = "", "", ""
	if m.Week != nil {
		week = *m.Week
	}
	if m.ScoreA != nil {
		scoreA = *m.ScoreA
	}
	if m.ScoreB != nil {
		scoreB = *m.ScoreB
	}
	return []interface{}{
		m.ID, week, deref(m.Day), deref(m.Time),
		m.Gender, m.Level, m.Category, m.Group, string(m.Phase), m.Order,
		m.TeamA.Curso, m.TeamA.Paralelo, m.TeamB.Curso, m.TeamB.Paralelo,
		string(m.State), scoreA, scoreB,
	}
}

func sortForSheet(cfg scheduling.Config, rows []models.Match) {
	timeIndex := make(map[string]int, len(cfg.Times))
	for i, t := range cfg.Times {
		timeIndex[t] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.HasSlot() != b.HasSlot() {
			return a.HasSlot()
		}
		if !a.HasSlot() {
			return a.ID < b.ID
		}
		if *a.Week != *b.Week {
			return *a.Week < *b.Week
		}
		if da, db := cfg.DayIndex(*a.Day), cfg.DayIndex(*b.Day); da != db {
			return da < db
		}
		if ta, tb := timeIndex[*a.Time], timeIndex[*b.Time]; ta != tb {
			return ta < tb
		}
		return a.ID < b.ID
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
