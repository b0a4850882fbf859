package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
)

// Notifier pushes live updates to websocket rooms. *brackets.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, messageType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) BroadcastToRoom(string, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// handleRepositoryError translates repository sentinels into service ones.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamConflict):
		return ErrTeamConflict
	case errors.Is(err, repositories.ErrMatchSlotTaken):
		return ErrSlotTaken
	case errors.Is(err, repositories.ErrMatchAlreadyExists):
		return ErrConflict
	case errors.Is(err, repositories.ErrMatchInvalid):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return err
}

func validateKey(key models.BracketKey) error {
	if !key.Discipline.Valid() || key.Gender == "" || key.Level == "" || key.Category == "" {
		return ErrInvalidBracketKey
	}
	return nil
}

func recordIssues(m *metrics.Metrics, issues []*models.Issue) {
	for _, is := range issues {
		m.Issue(is.Kind())
	}
}

func getMatch(ctx context.Context, repo repositories.MatchRepository, exec repositories.SQLExecutor, id string) (models.Match, error) {
	m, err := repo.GetByID(ctx, exec, id)
	if err != nil {
		return models.Match{}, handleRepositoryError(err)
	}
	return *m, nil
}
