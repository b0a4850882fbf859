package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/school-tournament/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamConflict = errors.New("team already registered for this bracket")
)

// TeamFilter narrows List. Zero fields do not filter.
type TeamFilter struct {
	Discipline models.Discipline
	Key        *models.BracketKey
}

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error)
	List(ctx context.Context, exec SQLExecutor, filter TeamFilter) ([]models.Team, error)
	UpdateGroup(ctx context.Context, exec SQLExecutor, id, group string) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, discipline, curso, paralelo, gender, level, category, group_name, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (id, discipline, curso, paralelo, gender, level, category, group_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.ID, team.Discipline, team.Curso, team.Paralelo, team.Gender, team.Level, team.Category, team.Group,
	).Scan(&team.CreatedAt)
	if err != nil {
		if code, _ := pqCode(err); code == codeUniqueViolation {
			return ErrTeamConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor, filter TeamFilter) ([]models.Team, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + teamColumns + ` FROM teams WHERE 1 = 1`)

	args := []interface{}{}
	where := func(column string, value interface{}) {
		args = append(args, value)
		queryBuilder.WriteString(" AND " + column + " = $" + strconv.Itoa(len(args)))
	}
	if filter.Key != nil {
		where("discipline", filter.Key.Discipline)
		where("gender", filter.Key.Gender)
		where("level", filter.Key.Level)
		where("category", filter.Key.Category)
	} else if filter.Discipline != "" {
		where("discipline", filter.Discipline)
	}
	queryBuilder.WriteString(" ORDER BY group_name ASC, curso ASC, paralelo ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateGroup(ctx context.Context, exec SQLExecutor, id, group string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE teams SET group_name = $1 WHERE id = $2`, group, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeam(row rowScanner) (models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Discipline, &t.Curso, &t.Paralelo, &t.Gender, &t.Level, &t.Category, &t.Group, &t.CreatedAt)
	return t, err
}
