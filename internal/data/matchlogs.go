package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
	"github.com/lib/pq"
)

var ErrDuplicateMatchDate = errors.New("duplicate match date for team")

type MatchStatus string

const (
	MatchStarted     MatchStatus = "MP"
	MatchReserve     MatchStatus = "MR"
	MatchNotInvolved MatchStatus = "MN"
)

type MatchStat struct {
	ID        int64       `json:"id"`
	Player    Ref         `json:"player_id"`
	FirstName string      `json:"first_name,omitempty"`
	LastName  string      `json:"last_name,omitempty"`
	Minutes   int         `json:"minutes"`
	Goals     int         `json:"goals"`
	Assists   int         `json:"assists"`
	Status    MatchStatus `json:"status"`
}

// Played reports whether the stat counts as a played match.
func (s MatchStat) Played() bool {
	return s.Status == MatchStarted || s.Status == MatchReserve
}

type MatchLog struct {
	ID        int64       `json:"id"`
	Team      Ref         `json:"team_id"`
	MatchDate Date        `json:"match_date"`
	Opponent  string      `json:"opponent"`
	Score     string      `json:"score"`
	Stats     []MatchStat `json:"stats"`
	CreatedAt time.Time   `json:"-"`
	Version   int32       `json:"-"`
}

type MatchLogModel struct {
	db *sql.DB
}

// Insert creates the log with one stat per active roster player: provided
// stats are kept, everyone else gets a zeroed not-involved entry. The
// matching "match" training plan is created in the same transaction when
// absent.
func (m *MatchLogModel) Insert(log *MatchLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = insertMatchLog(ctx, tx, log)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	stmt := `
		INSERT INTO training_plans (team_id, event_date, event_kind, week_index)
		VALUES ($1, $2, 'match', 0)
		ON CONFLICT (team_id, event_date) DO NOTHING`

	_, err = tx.ExecContext(ctx, stmt, log.Team, log.MatchDate)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}

func insertMatchLog(ctx context.Context, tx *sql.Tx, log *MatchLog) error {
	stmt := `
		INSERT INTO match_logs (team_id, match_date, opponent, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`

	err := tx.QueryRowContext(ctx, stmt, log.Team, log.MatchDate, log.Opponent, log.Score).
		Scan(&log.ID, &log.CreatedAt, &log.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_match_team_date"`:
			return ErrDuplicateMatchDate
		case err.Error() == `pq: insert or update on table "match_logs" violates foreign key `+
			`constraint "match_logs_team_id_fkey"`:
			return ErrTeamNotFound
		default:
			return err
		}
	}

	for i := range log.Stats {
		if err := upsertMatchStat(ctx, tx, log.ID, &log.Stats[i]); err != nil {
			return err
		}
	}

	return backfillRosterStats(ctx, tx, log.Team.ID, log.ID)
}

// ensureMatchLog creates an empty match log (zeroed MN stats for the active
// roster) for the team and date unless one already exists.
func ensureMatchLog(ctx context.Context, tx *sql.Tx, teamID int64, date Date,
	opponent string) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM match_logs WHERE team_id = $1 AND match_date = $2)`,
		teamID, date).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if opponent == "" {
		opponent = "Match"
	}

	log := &MatchLog{Team: Ref{ID: teamID}, MatchDate: date, Opponent: opponent}
	return insertMatchLog(ctx, tx, log)
}

func upsertMatchStat(ctx context.Context, tx *sql.Tx, logID int64, stat *MatchStat) error {
	stmt := `
		INSERT INTO match_stats (match_log_id, player_id, minutes, goals, assists, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_log_id, player_id)
		DO UPDATE SET minutes = EXCLUDED.minutes, goals = EXCLUDED.goals,
			assists = EXCLUDED.assists, status = EXCLUDED.status
		RETURNING id`

	args := []any{logID, stat.Player, stat.Minutes, stat.Goals, stat.Assists, stat.Status}

	err := tx.QueryRowContext(ctx, stmt, args...).Scan(&stat.ID)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "match_stats" violates foreign key `+
			`constraint "match_stats_player_id_fkey"`:
			return ErrPlayerNotFound
		default:
			return err
		}
	}

	return nil
}

// backfillRosterStats gives every active roster player without a stat on the
// log a zeroed not-involved entry.
func backfillRosterStats(ctx context.Context, tx *sql.Tx, teamID, logID int64) error {
	stmt := `
		INSERT INTO match_stats (match_log_id, player_id, minutes, goals, assists, status)
		SELECT $2, p.id, 0, 0, 0, 'MN'
		FROM players p
		WHERE p.team_id = $1 AND p.is_active = true
		ON CONFLICT (match_log_id, player_id) DO NOTHING`

	_, err := tx.ExecContext(ctx, stmt, teamID, logID)
	return err
}

func (m *MatchLogModel) Get(id int64) (*MatchLog, error) {
	stmt := `
		SELECT id, team_id, match_date, opponent, score, created_at, version
		FROM match_logs
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var log MatchLog
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&log.ID,
		&log.Team,
		&log.MatchDate,
		&log.Opponent,
		&log.Score,
		&log.CreatedAt,
		&log.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	err = m.attachStats(ctx, []*MatchLog{&log})
	if err != nil {
		return nil, err
	}

	return &log, nil
}

func (m *MatchLogModel) GetAllByTeam(teamID int64, dateRange DateRange) ([]*MatchLog, error) {
	return m.getAllByTeam(context.Background(), teamID, dateRange)
}

func (m *MatchLogModel) GetAllByTeamCtx(ctx context.Context, teamID int64,
	dateRange DateRange) ([]*MatchLog, error) {
	return m.getAllByTeam(ctx, teamID, dateRange)
}

func (m *MatchLogModel) getAllByTeam(parent context.Context, teamID int64,
	dateRange DateRange) ([]*MatchLog, error) {
	stmt := `
		SELECT id, team_id, match_date, opponent, score, created_at, version
		FROM match_logs
		WHERE team_id = $1
		AND (($2 IS FALSE) OR match_date >= $3)
		AND (($4 IS FALSE) OR match_date <= $5)
		ORDER BY match_date ASC, id ASC`

	ctx, cancel := context.WithTimeout(parent, 3*time.Second)
	defer cancel()

	args := []any{
		teamID,
		dateRange.AfterDate != nil,
		dateRange.AfterDate,
		dateRange.BeforeDate != nil,
		dateRange.BeforeDate,
	}

	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*MatchLog, 0)
	for rows.Next() {
		var log MatchLog
		err := rows.Scan(
			&log.ID,
			&log.Team,
			&log.MatchDate,
			&log.Opponent,
			&log.Score,
			&log.CreatedAt,
			&log.Version,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = m.attachStats(ctx, logs)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// attachStats loads the per-player stats (with player names expanded) for
// each log in one query.
func (m *MatchLogModel) attachStats(ctx context.Context, logs []*MatchLog) error {
	if len(logs) == 0 {
		return nil
	}

	byID := make(map[int64]*MatchLog, len(logs))
	ids := make([]int64, 0, len(logs))
	for _, log := range logs {
		log.Stats = make([]MatchStat, 0)
		byID[log.ID] = log
		ids = append(ids, log.ID)
	}

	stmt := `
		SELECT ms.match_log_id, ms.id, ms.player_id, p.first_name, p.last_name, ms.minutes,
			ms.goals, ms.assists, ms.status
		FROM match_stats ms
		INNER JOIN players p ON p.id = ms.player_id
		WHERE ms.match_log_id = ANY($1)
		ORDER BY p.last_name ASC, p.first_name ASC, ms.id ASC`

	rows, err := m.db.QueryContext(ctx, stmt, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			logID int64
			stat  MatchStat
		)
		err := rows.Scan(
			&logID,
			&stat.ID,
			&stat.Player,
			&stat.FirstName,
			&stat.LastName,
			&stat.Minutes,
			&stat.Goals,
			&stat.Assists,
			&stat.Status,
		)
		if err != nil {
			return err
		}
		if log, ok := byID[logID]; ok {
			log.Stats = append(log.Stats, stat)
		}
	}

	return rows.Err()
}

// Update replaces the log header and the full stat list.
func (m *MatchLogModel) Update(log *MatchLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
		UPDATE match_logs
		SET match_date = $1, opponent = $2, score = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version`

	args := []any{log.MatchDate, log.Opponent, log.Score, log.ID, log.Version}

	err = tx.QueryRowContext(ctx, stmt, args...).Scan(&log.Version)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_match_team_date"`:
			return ErrDuplicateMatchDate
		default:
			return err
		}
	}

	for i := range log.Stats {
		if err := upsertMatchStat(ctx, tx, log.ID, &log.Stats[i]); err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
	}

	return tx.Commit()
}

// Delete removes the log (stats cascade) and the matching "match" training
// plan in the same transaction.
func (m *MatchLogModel) Delete(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var (
		teamID    int64
		matchDate Date
	)
	err = tx.QueryRowContext(ctx, `
		DELETE FROM match_logs
		WHERE id = $1
		RETURNING team_id, match_date`, id).Scan(&teamID, &matchDate)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM training_plans
		WHERE team_id = $1 AND event_date = $2 AND event_kind = 'match'`, teamID, matchDate)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}

func ValidateMatchLog(v *validator.Validator, log *MatchLog) {
	v.Check(log.Team.ID > 0, "team_id", "must be provided")
	v.Check(!log.MatchDate.IsZero(), "match_date", "must be provided")
	v.Check(log.Opponent != "", "opponent", "must be provided")
	v.Check(len(log.Opponent) <= 100, "opponent", "must be 100 characters or less")
	v.Check(len(log.Score) <= 20, "score", "must be 20 characters or less")

	playerIDs := make([]int64, 0, len(log.Stats))
	for _, stat := range log.Stats {
		playerIDs = append(playerIDs, stat.Player.ID)
		v.Check(stat.Player.ID > 0, "stats", "every stat must reference a player")
		v.Check(stat.Minutes >= 0 && stat.Minutes <= 120, "stats",
			"minutes must be between 0 and 120")
		v.Check(stat.Goals >= 0, "stats", "goals must be 0 or greater")
		v.Check(stat.Assists >= 0, "stats", "assists must be 0 or greater")
		v.Check(validator.PermittedValue(stat.Status, MatchStarted, MatchReserve,
			MatchNotInvolved), "stats", `status must be one of "MP", "MR" or "MN"`)
	}
	v.Check(validator.Unique(playerIDs), "stats", "must contain one entry per player")
}
