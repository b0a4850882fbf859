package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/school-tournament/brackets"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/google/uuid"
)

type CreateMatchInput struct {
	Key   models.BracketKey `json:"key"`
	TeamA models.TeamRef    `json:"team_a"`
	TeamB models.TeamRef    `json:"team_b"`
	Group string            `json:"group"`
	Phase models.Phase      `json:"phase"`
	Order int               `json:"order"`
}

// FinishResult carries the finished match and the bracket progress it
// triggered. Advance is nil when the automatic advance failed; the match
// result itself is already stored at that point.
type FinishResult struct {
	Match   models.Match            `json:"match"`
	Advance *brackets.AdvanceResult `json:"advance,omitempty"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByDiscipline(ctx context.Context, d models.Discipline) ([]models.Match, error)
	Delete(ctx context.Context, id string) error
	Start(ctx context.Context, id string) (*models.Match, error)
	Finish(ctx context.Context, id string, scoreA, scoreB int) (*FinishResult, error)
	Pause(ctx context.Context, id string) (*models.Match, error)
	Reopen(ctx context.Context, id string) (*models.Match, error)
}

type matchService struct {
	tx             repositories.Transactor
	matchRepo      repositories.MatchRepository
	bracketService BracketService
	notifier       Notifier
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	bracketService BracketService,
	notifier Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		bracketService: bracketService,
		notifier:       notifierOrNoop(notifier),
		metrics:        m,
		logger:         loggerOrDefault(logger),
	}
}

// scopeTeam copies the bracket attributes onto a team given by curso and
// paralelo only.
func scopeTeam(t models.TeamRef, key models.BracketKey) models.TeamRef {
	if t.IsTBD() {
		return models.TeamRef{}
	}
	t.Gender, t.Level, t.Category = key.Gender, key.Level, key.Category
	return t
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if err := validateKey(input.Key); err != nil {
		return nil, err
	}
	if input.Phase == "" {
		input.Phase = models.PhaseGroup
	}
	m, err := models.NewMatch(uuid.NewString(), input.Key,
		scopeTeam(input.TeamA, input.Key), scopeTeam(input.TeamB, input.Key),
		input.Group, input.Phase, input.Order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if err := s.matchRepo.Create(ctx, nil, &m); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.metrics.MatchCreated(string(m.Phase))
	s.logger.InfoContext(ctx, "match created", slog.String("match_id", m.ID), slog.String("bracket", m.BracketKey().String()))
	s.notifier.BroadcastToRoom(m.BracketKey().Room(), brackets.MessageMatchUpdated, m)
	return &m, nil
}

func (s *matchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	m, err := getMatch(ctx, s.matchRepo, nil, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *matchService) ListByDiscipline(ctx context.Context, d models.Discipline) ([]models.Match, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown discipline %q", ErrValidationFailed, d)
	}
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{Discipline: d})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s matches: %w", d, err)
	}
	return matches, nil
}

func (s *matchService) Delete(ctx context.Context, id string) error {
	m, err := getMatch(ctx, s.matchRepo, nil, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, nil, id); err != nil {
		return handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "match deleted", slog.String("match_id", id))
	s.notifier.BroadcastToRoom(m.BracketKey().Room(), brackets.MessageMatchUpdated, map[string]string{"deleted": id})
	return nil
}

func (s *matchService) Start(ctx context.Context, id string) (*models.Match, error) {
	return s.transition(ctx, id, func(m models.Match) (models.Match, error) {
		return m.Transition(models.StateInProgress)
	})
}

// Pause returns an in-progress match to pending; its slot is kept.
func (s *matchService) Pause(ctx context.Context, id string) (*models.Match, error) {
	return s.transition(ctx, id, func(m models.Match) (models.Match, error) {
		return m.Transition(models.StatePending)
	})
}

// Reopen moves a finished match back to in progress so its score can be
// corrected. The stored score stays until the match is finished again.
func (s *matchService) Reopen(ctx context.Context, id string) (*models.Match, error) {
	return s.transition(ctx, id, func(m models.Match) (models.Match, error) {
		if m.State != models.StateFinished {
			return m, &models.Issue{Err: models.ErrInvalidTransition, MatchID: m.ID, Detail: fmt.Sprintf("%s match cannot be reopened", m.State)}
		}
		return m.Transition(models.StateInProgress)
	})
}

// Finish stores the score and then attempts to advance the bracket. A failed
// advance is logged and does not undo the result.
func (s *matchService) Finish(ctx context.Context, id string, scoreA, scoreB int) (*FinishResult, error) {
	m, err := s.transition(ctx, id, func(m models.Match) (models.Match, error) {
		return m.Finish(scoreA, scoreB)
	})
	if err != nil {
		return nil, err
	}

	result := &FinishResult{Match: *m}
	if s.bracketService == nil {
		return result, nil
	}
	adv, err := s.bracketService.Advance(ctx, m.BracketKey())
	if err != nil {
		s.logger.ErrorContext(ctx, "automatic bracket advance failed",
			slog.String("match_id", m.ID),
			slog.String("bracket", m.BracketKey().String()),
			slog.Any("error", err),
		)
		return result, nil
	}
	result.Advance = adv
	return result, nil
}

func (s *matchService) transition(ctx context.Context, id string, apply func(models.Match) (models.Match, error)) (*models.Match, error) {
	var updated models.Match
	err := s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		m, err := getMatch(ctx, s.matchRepo, tx, id)
		if err != nil {
			return err
		}
		if updated, err = apply(m); err != nil {
			return err
		}
		return handleRepositoryError(s.matchRepo.UpdateResult(ctx, tx, &updated))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(updated.State))
	s.logger.InfoContext(ctx, "match state changed", slog.String("match_id", updated.ID), slog.String("state", string(updated.State)))
	s.notifier.BroadcastToRoom(updated.BracketKey().Room(), brackets.MessageMatchUpdated, updated)
	return &updated, nil
}
