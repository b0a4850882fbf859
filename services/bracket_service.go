package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"golang.org/x/sync/errgroup"
)

type GroupStageResult struct {
	Key     models.BracketKey `json:"key"`
	Created []models.Match    `json:"created"`
	Issues  []*models.Issue   `json:"issues"`
}

type StandingsView struct {
	Key    models.BracketKey                  `json:"key"`
	Groups map[string][]models.StandingsEntry `json:"groups"`
	Issues []*models.Issue                    `json:"issues"`
}

type BracketService interface {
	GenerateGroupStage(ctx context.Context, key models.BracketKey) (*GroupStageResult, error)
	Advance(ctx context.Context, key models.BracketKey) (*brackets.AdvanceResult, error)
	Standings(ctx context.Context, key models.BracketKey) (*StandingsView, error)
}

type bracketService struct {
	tx        repositories.Transactor
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		tx:        tx,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		notifier:  notifierOrNoop(notifier),
		metrics:   m,
		logger:    loggerOrDefault(logger),
	}
}

// load reads the bracket's teams and matches concurrently.
func (s *bracketService) load(ctx context.Context, key models.BracketKey) ([]models.Team, []models.Match, error) {
	var (
		teams   []models.Team
		matches []models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx, nil, repositories.TeamFilter{Key: &key})
		if err != nil {
			return fmt.Errorf("failed to load teams of %s: %w", key, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gCtx, nil, repositories.MatchFilter{Key: &key})
		if err != nil {
			return fmt.Errorf("failed to load matches of %s: %w", key, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return teams, matches, nil
}

func (s *bracketService) GenerateGroupStage(ctx context.Context, key models.BracketKey) (*GroupStageResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	teams, matches, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	created, issues := brackets.GenerateGroupStage(key, teams, matches)
	stored, err := s.store(ctx, created, nil)
	if err != nil {
		return nil, err
	}
	recordIssues(s.metrics, issues)
	if issues == nil {
		issues = []*models.Issue{}
	}

	s.logger.InfoContext(ctx, "group stage generated",
		slog.String("bracket", key.String()),
		slog.Int("created", len(stored)),
		slog.Int("issues", len(issues)),
	)
	if len(stored) > 0 {
		s.notifier.BroadcastToRoom(key.Room(), brackets.MessageBracketUpdated, stored)
	}
	return &GroupStageResult{Key: key, Created: stored, Issues: issues}, nil
}

// Advance runs the bracket state machine over the stored matches and
// persists the new matches and the placeholder rewrites it returns.
func (s *bracketService) Advance(ctx context.Context, key models.BracketKey) (*brackets.AdvanceResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	teams, matches, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	res := brackets.Advance(brackets.AdvanceInput{Key: key, Teams: teams, Matches: matches})
	stored, err := s.store(ctx, res.Create, res.Update)
	if err != nil {
		return nil, err
	}
	res.Create = stored

	s.metrics.Advanced(string(key.Discipline), string(res.State))
	recordIssues(s.metrics, res.Issues)
	s.logger.InfoContext(ctx, "bracket advanced",
		slog.String("bracket", key.String()),
		slog.String("state", string(res.State)),
		slog.Int("created", len(res.Create)),
		slog.Int("updated", len(res.Update)),
		slog.Int("issues", len(res.Issues)),
	)
	if len(res.Create) > 0 || len(res.Update) > 0 {
		s.notifier.BroadcastToRoom(key.Room(), brackets.MessageBracketUpdated, res)
	}
	return &res, nil
}

// store inserts create and rewrites the teams of update in one transaction.
// Matches another writer already inserted are dropped from the result.
func (s *bracketService) store(ctx context.Context, create, update []models.Match) ([]models.Match, error) {
	stored := make([]models.Match, 0, len(create))
	if len(create) == 0 && len(update) == 0 {
		return stored, nil
	}
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		stored = stored[:0]
		for i := range create {
			m := create[i]
			err := s.matchRepo.Create(ctx, tx, &m)
			if errors.Is(err, repositories.ErrMatchAlreadyExists) {
				s.logger.InfoContext(ctx, "match already stored, skipping", slog.String("match_id", m.ID))
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create match %s: %w", m.ID, handleRepositoryError(err))
			}
			stored = append(stored, m)
		}
		for i := range update {
			if err := s.matchRepo.UpdateTeams(ctx, tx, &update[i]); err != nil {
				return fmt.Errorf("failed to update teams of match %s: %w", update[i].ID, handleRepositoryError(err))
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "bracket changes rolled back", slog.Any("error", err))
		return nil, err
	}
	for _, m := range stored {
		s.metrics.MatchCreated(string(m.Phase))
	}
	return stored, nil
}

// Standings computes the current table of every group from the finished
// group-stage matches. Tie-break matches do not count towards the table.
func (s *bracketService) Standings(ctx context.Context, key models.BracketKey) (*StandingsView, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{Key: &key})
	if err != nil {
		return nil, fmt.Errorf("failed to load matches of %s: %w", key, err)
	}

	byGroup := make(map[string][]models.Match)
	for _, m := range matches {
		if m.Phase.IsGroupStage() && m.Phase != models.PhaseTieBreak {
			byGroup[m.Group] = append(byGroup[m.Group], m)
		}
	}
	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	view := &StandingsView{Key: key, Groups: make(map[string][]models.StandingsEntry, len(names)), Issues: []*models.Issue{}}
	for _, name := range names {
		table, issues := brackets.ComputeStandings(byGroup[name])
		view.Groups[name] = table
		view.Issues = append(view.Issues, issues...)
	}
	return view, nil
}
