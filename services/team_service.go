package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/google/uuid"
)

type CreateTeamInput struct {
	Discipline models.Discipline `json:"discipline"`
	Curso      string            `json:"curso"`
	Paralelo   string            `json:"paralelo"`
	Gender     string            `json:"gender"`
	Level      string            `json:"level"`
	Category   string            `json:"category"`
	Group      string            `json:"group"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	ListByDiscipline(ctx context.Context, d models.Discipline) ([]models.Team, error)
	AssignGroup(ctx context.Context, id, group string) error
	Delete(ctx context.Context, id string) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, logger *slog.Logger) TeamService {
	return &teamService{teamRepo: teamRepo, logger: loggerOrDefault(logger)}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	team := models.Team{
		ID:         uuid.NewString(),
		Discipline: input.Discipline,
		Group:      strings.TrimSpace(input.Group),
		TeamRef: models.TeamRef{
			Curso:    strings.TrimSpace(input.Curso),
			Paralelo: strings.TrimSpace(input.Paralelo),
			Gender:   strings.TrimSpace(input.Gender),
			Level:    strings.TrimSpace(input.Level),
			Category: strings.TrimSpace(input.Category),
		},
	}
	if err := validateKey(team.BracketKey()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if team.Curso == "" {
		return nil, fmt.Errorf("%w: curso is required", ErrValidationFailed)
	}
	if err := s.teamRepo.Create(ctx, nil, &team); err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "team registered", slog.String("team_id", team.ID), slog.String("team", team.Name()), slog.String("bracket", team.BracketKey().String()))
	return &team, nil
}

func (s *teamService) ListByDiscipline(ctx context.Context, d models.Discipline) ([]models.Team, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown discipline %q", ErrValidationFailed, d)
	}
	teams, err := s.teamRepo.List(ctx, nil, repositories.TeamFilter{Discipline: d})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s teams: %w", d, err)
	}
	return teams, nil
}

func (s *teamService) AssignGroup(ctx context.Context, id, group string) error {
	return handleRepositoryError(s.teamRepo.UpdateGroup(ctx, nil, id, strings.TrimSpace(group)))
}

func (s *teamService) Delete(ctx context.Context, id string) error {
	return handleRepositoryError(s.teamRepo.Delete(ctx, nil, id))
}
