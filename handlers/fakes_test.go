package handlers

import (
	"context"
	"io"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/Dosada05/school-tournament/services"
	"github.com/Dosada05/school-tournament/storage"
)

// stubMatchService answers from fixed values and records the last call.
type stubMatchService struct {
	match    *models.Match
	matches  []models.Match
	finish   *services.FinishResult
	err      error
	lastID   string
	lastA    int
	lastB    int
	lastDisc models.Discipline
}

func (s *stubMatchService) Create(_ context.Context, in services.CreateMatchInput) (*models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	m := models.Match{ID: "new", Discipline: in.Key.Discipline, Phase: in.Phase, State: models.StatePending}
	return &m, nil
}

func (s *stubMatchService) GetByID(_ context.Context, id string) (*models.Match, error) {
	s.lastID = id
	return s.match, s.err
}

func (s *stubMatchService) ListByDiscipline(_ context.Context, d models.Discipline) ([]models.Match, error) {
	s.lastDisc = d
	return s.matches, s.err
}

func (s *stubMatchService) Delete(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubMatchService) Start(_ context.Context, id string) (*models.Match, error) {
	s.lastID = id
	return s.match, s.err
}

func (s *stubMatchService) Finish(_ context.Context, id string, a, b int) (*services.FinishResult, error) {
	s.lastID, s.lastA, s.lastB = id, a, b
	return s.finish, s.err
}

func (s *stubMatchService) Pause(_ context.Context, id string) (*models.Match, error) {
	s.lastID = id
	return s.match, s.err
}

func (s *stubMatchService) Reopen(_ context.Context, id string) (*models.Match, error) {
	s.lastID = id
	return s.match, s.err
}

type stubScheduleService struct {
	cfg        scheduling.Config
	match      *models.Match
	assign     *scheduling.AssignResult
	report     *scheduling.ValidationReport
	slots      []models.Slot
	err        error
	lastSlot   models.Slot
	lastPolicy scheduling.ConflictPolicy
}

func (s *stubScheduleService) Config() scheduling.Config { return s.cfg }

func (s *stubScheduleService) Alternation(week int, day string) (*services.AlternationView, error) {
	if s.err != nil {
		return nil, s.err
	}
	dd, err := scheduling.DisciplinesForDay(s.cfg.DayIndex(day), s.cfg.StartingDiscipline)
	if err != nil {
		return nil, err
	}
	return &services.AlternationView{Week: week, Day: day, Disciplines: dd}, nil
}

func (s *stubScheduleService) AutoAssign(_ context.Context, policy scheduling.ConflictPolicy) (*scheduling.AssignResult, error) {
	s.lastPolicy = policy
	return s.assign, s.err
}

func (s *stubScheduleService) Place(_ context.Context, _ string, slot models.Slot, policy scheduling.ConflictPolicy) (*models.Match, error) {
	s.lastSlot, s.lastPolicy = slot, policy
	return s.match, s.err
}

func (s *stubScheduleService) Unschedule(_ context.Context, _ string) (*models.Match, error) {
	return s.match, s.err
}

func (s *stubScheduleService) Validate(context.Context) (*scheduling.ValidationReport, error) {
	return s.report, s.err
}

func (s *stubScheduleService) FreeSlots(_ context.Context, _ models.Discipline) ([]models.Slot, error) {
	return s.slots, s.err
}

type stubBracketService struct {
	group     *services.GroupStageResult
	advance   *brackets.AdvanceResult
	standings *services.StandingsView
	err       error
	lastKey   models.BracketKey
}

func (s *stubBracketService) GenerateGroupStage(_ context.Context, key models.BracketKey) (*services.GroupStageResult, error) {
	s.lastKey = key
	return s.group, s.err
}

func (s *stubBracketService) Advance(_ context.Context, key models.BracketKey) (*brackets.AdvanceResult, error) {
	s.lastKey = key
	return s.advance, s.err
}

func (s *stubBracketService) Standings(_ context.Context, key models.BracketKey) (*services.StandingsView, error) {
	s.lastKey = key
	return s.standings, s.err
}

type stubTeamService struct {
	teams     []models.Team
	err       error
	lastInput services.CreateTeamInput
	lastGroup string
}

func (s *stubTeamService) Create(_ context.Context, in services.CreateTeamInput) (*models.Team, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Team{ID: "t1", Discipline: in.Discipline, TeamRef: models.TeamRef{Curso: in.Curso, Paralelo: in.Paralelo}}, nil
}

func (s *stubTeamService) ListByDiscipline(context.Context, models.Discipline) ([]models.Team, error) {
	return s.teams, s.err
}

func (s *stubTeamService) AssignGroup(_ context.Context, _ string, group string) error {
	s.lastGroup = group
	return s.err
}

func (s *stubTeamService) Delete(context.Context, string) error { return s.err }

type stubExportService struct {
	workbook  []byte
	published *storage.UploadResult
	imported  *services.ImportResult
	err       error
	received  []byte
}

func (s *stubExportService) WriteSchedule(_ context.Context, w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write(s.workbook)
	return err
}

func (s *stubExportService) PublishSchedule(context.Context) (*storage.UploadResult, error) {
	return s.published, s.err
}

func (s *stubExportService) ImportMatches(_ context.Context, r io.Reader) (*services.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.received = data
	return s.imported, s.err
}
