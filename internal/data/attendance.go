package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
	AttendanceLate    AttendanceStatus = "late"
)

type AttendanceRecord struct {
	ID        int64            `json:"id"`
	Player    Ref              `json:"player_id"`
	Team      Ref              `json:"team_id"`
	EventDate Date             `json:"event_date"`
	Status    AttendanceStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
}

type AttendanceModel struct {
	db *sql.DB
}

// Upsert writes the attendance record for (player, team, date). There is at
// most one record per player per team per day; a second write for the same
// key replaces the status and note.
func (m *AttendanceModel) Upsert(record *AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.upsert(ctx, m.db, record)
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (m *AttendanceModel) upsert(ctx context.Context, q execQuerier,
	record *AttendanceRecord) error {
	stmt := `
		INSERT INTO attendance (player_id, team_id, event_date, status, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, team_id, event_date)
		DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note
		RETURNING id`

	args := []any{record.Player, record.Team, record.EventDate, record.Status, record.Note}

	err := q.QueryRowContext(ctx, stmt, args...).Scan(&record.ID)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "attendance" violates foreign key `+
			`constraint "attendance_player_id_fkey"`:
			return ErrPlayerNotFound
		case err.Error() == `pq: insert or update on table "attendance" violates foreign key `+
			`constraint "attendance_team_id_fkey"`:
			return ErrTeamNotFound
		default:
			return err
		}
	}

	return nil
}

// BulkUpsert records attendance for a whole roster on one date inside a
// single transaction.
func (m *AttendanceModel) BulkUpsert(records []*AttendanceRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := m.upsert(ctx, tx, record); err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
	}

	return tx.Commit()
}

func (m *AttendanceModel) GetAllByTeam(teamID int64, dateRange DateRange) ([]*AttendanceRecord,
	error) {
	return m.getAll(context.Background(), `team_id`, teamID, dateRange)
}

func (m *AttendanceModel) GetAllByTeamCtx(ctx context.Context, teamID int64,
	dateRange DateRange) ([]*AttendanceRecord, error) {
	return m.getAll(ctx, `team_id`, teamID, dateRange)
}

func (m *AttendanceModel) GetAllByPlayer(playerID int64, dateRange DateRange) (
	[]*AttendanceRecord, error) {
	return m.getAll(context.Background(), `player_id`, playerID, dateRange)
}

func (m *AttendanceModel) getAll(parent context.Context, keyColumn string, id int64,
	dateRange DateRange) ([]*AttendanceRecord, error) {
	stmt := `
		SELECT id, player_id, team_id, event_date, status, note
		FROM attendance
		WHERE ` + keyColumn + ` = $1
		AND (($2 IS FALSE) OR event_date >= $3)
		AND (($4 IS FALSE) OR event_date <= $5)
		ORDER BY event_date ASC, id ASC`

	ctx, cancel := context.WithTimeout(parent, 3*time.Second)
	defer cancel()

	args := []any{
		id,
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

	records := make([]*AttendanceRecord, 0)
	for rows.Next() {
		var record AttendanceRecord
		err := rows.Scan(
			&record.ID,
			&record.Player,
			&record.Team,
			&record.EventDate,
			&record.Status,
			&record.Note,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

func (m *AttendanceModel) Delete(id int64) error {
	stmt := `
		DELETE FROM attendance
		WHERE id = $1
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

func ValidateAttendanceRecord(v *validator.Validator, record *AttendanceRecord) {
	v.Check(record.Player.ID > 0, "player_id", "must be provided")
	v.Check(record.Team.ID > 0, "team_id", "must be provided")
	v.Check(!record.EventDate.IsZero(), "event_date", "must be provided")
	v.Check(validator.PermittedValue(record.Status, AttendancePresent, AttendanceAbsent,
		AttendanceExcused, AttendanceLate), "status",
		`must be one of "present", "absent", "excused" or "late"`)
	v.Check(len(record.Note) <= 500, "note", "must be 500 characters or less")
}
