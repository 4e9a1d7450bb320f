package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
)

var (
	ErrDuplicateTeamName = errors.New("duplicate team name")
	ErrTeamNotFound      = errors.New("team not found")
)

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Season    string    `json:"season"`
	Coach     string    `json:"coach"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"-"`
	Version   int32     `json:"-"`
}

type TeamModel struct {
	db *sql.DB
}

func (m *TeamModel) Insert(team *Team) error {
	stmt := `
		INSERT INTO teams (name, season, coach)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version, is_active`

	args := []any{team.Name, team.Season, team.Coach}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(
		&team.ID,
		&team.CreatedAt,
		&team.Version,
		&team.IsActive,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_team_name_season"`:
			return ErrDuplicateTeamName
		default:
			return err
		}
	}

	return nil
}

func (m *TeamModel) Get(id int64) (*Team, error) {
	stmt := `
		SELECT id, name, season, coach, is_active, created_at, version
		FROM teams
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var team Team
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&team.ID,
		&team.Name,
		&team.Season,
		&team.Coach,
		&team.IsActive,
		&team.CreatedAt,
		&team.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &team, nil
}

func (m *TeamModel) GetAll(name string, filters Filters) ([]*Team, Metadata, error) {
	stmt := fmt.Sprintf(`
		SELECT count(*) OVER(), id, name, season, coach, is_active, created_at, version
		FROM teams
		WHERE (to_tsvector('simple', name) @@ plainto_tsquery('simple', $1) OR $1 = '')
		AND is_active = true
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, filters.sortColumn(), filters.sortDirection())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, name, filters.limit(), filters.offset())
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	teams := make([]*Team, 0)
	for rows.Next() {
		var team Team
		err := rows.Scan(
			&totalRecords,
			&team.ID,
			&team.Name,
			&team.Season,
			&team.Coach,
			&team.IsActive,
			&team.CreatedAt,
			&team.Version,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	metadata := calculateMetadata(totalRecords, filters.Page, filters.PageSize)

	return teams, metadata, nil
}

func (m *TeamModel) Update(team *Team) error {
	stmt := `
		UPDATE teams
		SET name = $1, season = $2, coach = $3, is_active = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`

	args := []any{
		team.Name,
		team.Season,
		team.Coach,
		team.IsActive,
		team.ID,
		team.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&team.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_team_name_season"`:
			return ErrDuplicateTeamName
		default:
			return err
		}
	}

	return nil
}

// Delete is a soft delete: the team keeps its players, attendance and match
// history but disappears from listings.
func (m *TeamModel) Delete(id int64) error {
	stmt := `
		UPDATE teams
		SET is_active = false, version = version + 1
		WHERE id = $1 AND is_active = true
		RETURNING id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, id).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func ValidateTeam(v *validator.Validator, team *Team) {
	v.Check(team.Name != "", "name", "must be provided")
	v.Check(len(team.Name) <= 50, "name", "must be 50 characters or less")
	v.Check(team.Season != "", "season", "must be provided")
	v.Check(len(team.Season) <= 20, "season", "must be 20 characters or less")
	v.Check(team.Coach != "", "coach", "must be provided")
	v.Check(len(team.Coach) <= 50, "coach", "must be 50 characters or less")
}
