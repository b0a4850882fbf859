package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/Dosada05/school-tournament/scheduling"
)

type AlternationView struct {
	Week        int                       `json:"week"`
	Day         string                    `json:"day"`
	Disciplines scheduling.DayDisciplines `json:"disciplines"`
}

type ScheduleService interface {
	Config() scheduling.Config
	Alternation(week int, day string) (*AlternationView, error)
	AutoAssign(ctx context.Context, policy scheduling.ConflictPolicy) (*scheduling.AssignResult, error)
	Place(ctx context.Context, matchID string, slot models.Slot, policy scheduling.ConflictPolicy) (*models.Match, error)
	Unschedule(ctx context.Context, matchID string) (*models.Match, error)
	Validate(ctx context.Context) (*scheduling.ValidationReport, error)
	FreeSlots(ctx context.Context, d models.Discipline) ([]models.Slot, error)
}

type scheduleService struct {
	cfg       scheduling.Config
	tx        repositories.Transactor
	matchRepo repositories.MatchRepository
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewScheduleService(
	cfg scheduling.Config,
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		cfg:       cfg,
		tx:        tx,
		matchRepo: matchRepo,
		notifier:  notifierOrNoop(notifier),
		metrics:   m,
		logger:    loggerOrDefault(logger),
	}
}

func (s *scheduleService) Config() scheduling.Config {
	return s.cfg
}

func (s *scheduleService) Alternation(week int, day string) (*AlternationView, error) {
	if week < 1 || week > s.cfg.Weeks {
		return nil, fmt.Errorf("%w: week %d outside 1..%d", ErrValidationFailed, week, s.cfg.Weeks)
	}
	di := s.cfg.DayIndex(day)
	if di < 0 {
		return nil, fmt.Errorf("%w: unknown day %q", ErrValidationFailed, day)
	}
	dd, err := scheduling.DisciplinesForDay(s.cfg.GlobalDayIndex(week, di), s.cfg.StartingDiscipline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return &AlternationView{Week: week, Day: day, Disciplines: dd}, nil
}

// AutoAssign fills every unscheduled match into the grid and stores the new
// slots in one transaction.
func (s *scheduleService) AutoAssign(ctx context.Context, policy scheduling.ConflictPolicy) (*scheduling.AssignResult, error) {
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for assignment: %w", err)
	}

	res := scheduling.Assign(scheduling.AssignRequest{Matches: matches, Config: s.cfg, Policy: policy})

	if len(res.Assigned) > 0 {
		err = s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
			for i := range res.Assigned {
				if err := s.matchRepo.UpdateSlot(ctx, tx, &res.Assigned[i]); err != nil {
					return fmt.Errorf("failed to store slot of match %s: %w", res.Assigned[i].ID, handleRepositoryError(err))
				}
			}
			return nil
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "auto-assignment rolled back", slog.Int("assigned", len(res.Assigned)), slog.Any("error", err))
			return nil, err
		}
	}

	assigned := make(map[models.Discipline][]models.Match)
	for _, m := range res.Assigned {
		assigned[m.Discipline] = append(assigned[m.Discipline], m)
	}
	unassigned := make(map[models.Discipline]int)
	for _, u := range res.Unassigned {
		unassigned[u.Match.Discipline]++
	}
	for _, d := range models.Disciplines {
		s.metrics.Assigned(string(d), len(assigned[d]))
		s.metrics.Unassigned(string(d), unassigned[d])
		if len(assigned[d]) > 0 {
			s.notifier.BroadcastToRoom(d.Room(), brackets.MessageScheduleUpdated, assigned[d])
		}
	}
	recordIssues(s.metrics, res.Errors)

	s.logger.InfoContext(ctx, "auto-assignment finished",
		slog.Int("assigned", len(res.Assigned)),
		slog.Int("unassigned", len(res.Unassigned)),
		slog.Int("errors", len(res.Errors)),
		slog.Bool("no_double_booking", policy.NoDoubleBookingPerDay),
	)
	return &res, nil
}

func (s *scheduleService) Place(ctx context.Context, matchID string, slot models.Slot, policy scheduling.ConflictPolicy) (*models.Match, error) {
	var placed models.Match
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		m, err := getMatch(ctx, s.matchRepo, tx, matchID)
		if err != nil {
			return err
		}
		if slot.Discipline == "" {
			slot.Discipline = m.Discipline
		}
		schedule, err := s.matchRepo.List(ctx, tx, repositories.MatchFilter{Discipline: m.Discipline})
		if err != nil {
			return fmt.Errorf("failed to load %s schedule: %w", m.Discipline, err)
		}
		placed, err = scheduling.Place(scheduling.PlaceRequest{
			Schedule: schedule,
			Match:    m,
			Slot:     slot,
			Config:   s.cfg,
			Policy:   policy,
		})
		if err != nil {
			return err
		}
		return handleRepositoryError(s.matchRepo.UpdateSlot(ctx, tx, &placed))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match placed", slog.String("match_id", placed.ID), slog.String("slot", slot.String()))
	s.notifier.BroadcastToRoom(placed.Discipline.Room(), brackets.MessageScheduleUpdated, []models.Match{placed})
	return &placed, nil
}

func (s *scheduleService) Unschedule(ctx context.Context, matchID string) (*models.Match, error) {
	var cleared models.Match
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		m, err := getMatch(ctx, s.matchRepo, tx, matchID)
		if err != nil {
			return err
		}
		if cleared, err = scheduling.Unschedule(m); err != nil {
			return err
		}
		return handleRepositoryError(s.matchRepo.UpdateSlot(ctx, tx, &cleared))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match unscheduled", slog.String("match_id", cleared.ID))
	s.notifier.BroadcastToRoom(cleared.Discipline.Room(), brackets.MessageScheduleUpdated, []models.Match{cleared})
	return &cleared, nil
}

func (s *scheduleService) Validate(ctx context.Context) (*scheduling.ValidationReport, error) {
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for validation: %w", err)
	}
	report := scheduling.Validate(s.cfg, matches)
	if !report.IsValid {
		s.logger.WarnContext(ctx, "schedule breaks the alternation pattern", slog.Int("errors", len(report.Errors)))
	}
	return &report, nil
}

func (s *scheduleService) FreeSlots(ctx context.Context, d models.Discipline) ([]models.Slot, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown discipline %q", ErrValidationFailed, d)
	}
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{Discipline: d})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s matches: %w", d, err)
	}
	free, err := scheduling.FreeSlots(s.cfg, matches, d, nil)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidConfig) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, err
	}
	if free == nil {
		free = []models.Slot{}
	}
	return free, nil
}

