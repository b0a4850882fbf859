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
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchAlreadyExists = errors.New("match already exists")
	ErrMatchSlotTaken     = errors.New("slot already holds a match")
	ErrMatchInvalid       = errors.New("match violates a table constraint")
)

// MatchFilter narrows List. Zero fields do not filter.
type MatchFilter struct {
	Discipline models.Discipline
	Key        *models.BracketKey
	State      models.MatchState
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error)
	UpdateSlot(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateTeams(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, discipline, gender, level, category,
	team_a_curso, team_a_paralelo, team_b_curso, team_b_paralelo,
	group_name, phase, match_order, state, score_a, score_b, week, day, time_slot,
	created_at, updated_at`

// Create inserts match. Deterministic ids make generation idempotent: an
// insert hitting the primary key affects no row and yields
// ErrMatchAlreadyExists without aborting the surrounding transaction. Slot
// and playoff key collisions still fail the statement.
func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(id, discipline, gender, level, category,
			 team_a_curso, team_a_paralelo, team_b_curso, team_b_paralelo,
			 group_name, phase, match_order, state, score_a, score_b, week, day, time_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.ID, match.Discipline, match.Gender, match.Level, match.Category,
		match.TeamA.Curso, match.TeamA.Paralelo, match.TeamB.Curso, match.TeamB.Paralelo,
		match.Group, match.Phase, match.Order, match.State,
		match.ScoreA, match.ScoreB, match.Week, match.Day, match.Time,
	).Scan(&match.CreatedAt, &match.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchAlreadyExists
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1 = 1`)

	args := []interface{}{}
	placeholderIndex := 1
	where := func(column string, value interface{}) {
		queryBuilder.WriteString(" AND " + column + " = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, value)
		placeholderIndex++
	}

	if filter.Key != nil {
		where("discipline", filter.Key.Discipline)
		where("gender", filter.Key.Gender)
		where("level", filter.Key.Level)
		where("category", filter.Key.Category)
	} else if filter.Discipline != "" {
		where("discipline", filter.Discipline)
	}
	if filter.State != "" {
		where("state", filter.State)
	}

	// insertion order keeps auto-assignment deterministic
	queryBuilder.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateSlot(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET week = $1, day = $2, time_slot = $3, state = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, match.Week, match.Day, match.Time, match.State, match.ID).Scan(&match.UpdatedAt)
	return r.handleUpdateError(err)
}

func (r *postgresMatchRepository) UpdateTeams(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET team_a_curso = $1, team_a_paralelo = $2, team_b_curso = $3, team_b_paralelo = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TeamA.Curso, match.TeamA.Paralelo, match.TeamB.Curso, match.TeamB.Paralelo, match.ID,
	).Scan(&match.UpdatedAt)
	return r.handleUpdateError(err)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET state = $1, score_a = $2, score_b = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, match.State, match.ScoreA, match.ScoreB, match.ID).Scan(&match.UpdatedAt)
	return r.handleUpdateError(err)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleUpdateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchNotFound
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqCode(err)
	switch code {
	case codeUniqueViolation:
		switch constraint {
		case "matches_slot_key":
			return ErrMatchSlotTaken
		case "matches_playoff_key", "matches_pkey":
			return ErrMatchAlreadyExists
		}
	case codeCheckViolation:
		return ErrMatchInvalid
	}
	return err
}

func scanMatch(row rowScanner) (models.Match, error) {
	var (
		m                    models.Match
		aCurso, aParalelo    string
		bCurso, bParalelo    string
		scoreA, scoreB, week sql.NullInt64
		day, timeSlot        sql.NullString
	)
	err := row.Scan(
		&m.ID, &m.Discipline, &m.Gender, &m.Level, &m.Category,
		&aCurso, &aParalelo, &bCurso, &bParalelo,
		&m.Group, &m.Phase, &m.Order, &m.State,
		&scoreA, &scoreB, &week, &day, &timeSlot,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return models.Match{}, err
	}
	m.TeamA = teamRef(m.BracketKey(), aCurso, aParalelo)
	m.TeamB = teamRef(m.BracketKey(), bCurso, bParalelo)
	m.ScoreA = intPtr(scoreA)
	m.ScoreB = intPtr(scoreB)
	m.Week = intPtr(week)
	m.Day = stringPtr(day)
	m.Time = stringPtr(timeSlot)
	return m, nil
}

// teamRef rebuilds a side of a match; placeholders stay the zero TeamRef.
func teamRef(key models.BracketKey, curso, paralelo string) models.TeamRef {
	if curso == "" && paralelo == "" {
		return models.TeamRef{}
	}
	return models.TeamRef{Curso: curso, Paralelo: paralelo, Gender: key.Gender, Level: key.Level, Category: key.Category}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
