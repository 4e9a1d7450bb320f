package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
	"github.com/lib/pq"
)

var ErrDuplicatePlanDate = errors.New("duplicate plan date for team")

type EventKind string

const (
	EventKindTraining EventKind = "training"
	EventKindMatch    EventKind = "match"
)

// GamePhases are the five phases of play a training can be built around.
var GamePhases = []string{
	"Finishing + Low Block",
	"Build-Up + Mid Block",
	"Opening + High Press",
	"Transition Attack/Defence",
	"Transition Defence/Attack",
}

const MaxExercises = 5

type TrainingPlan struct {
	ID            int64     `json:"id"`
	Team          Ref       `json:"team_id"`
	EventDate     Date      `json:"event_date"`
	EventKind     EventKind `json:"event_kind"`
	GamePhase     string    `json:"game_phase,omitempty"`
	TechniqueTags []string  `json:"technique_tags,omitempty"`
	MotorGoals    []string  `json:"motor_goals,omitempty"`
	MentalGoals   []string  `json:"mental_goals,omitempty"`
	Exercises     []string  `json:"exercises,omitempty"`
	Objectives    string    `json:"objectives,omitempty"`
	SelectedRules string    `json:"selected_rules,omitempty"`
	Assumptions   string    `json:"assumptions,omitempty"`
	WeekIndex     int       `json:"week_index"`
	CreatedAt     time.Time `json:"-"`
	Version       int32     `json:"-"`
}

type TrainingPlanModel struct {
	db *sql.DB
}

// Insert creates the plan. For a plan of kind "match" the corresponding
// match log (same team and date, zeroed not-involved stats for the active
// roster) is created in the same transaction when absent, keeping the two
// collections consistent without relying on the client.
func (m *TrainingPlanModel) Insert(plan *TrainingPlan) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO training_plans (team_id, event_date, event_kind, game_phase, technique_tags,
			motor_goals, mental_goals, exercises, objectives, selected_rules, assumptions,
			week_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version`

	args := []any{
		plan.Team,
		plan.EventDate,
		plan.EventKind,
		plan.GamePhase,
		pq.Array(plan.TechniqueTags),
		pq.Array(plan.MotorGoals),
		pq.Array(plan.MentalGoals),
		pq.Array(plan.Exercises),
		plan.Objectives,
		plan.SelectedRules,
		plan.Assumptions,
		plan.WeekIndex,
	}

	err = tx.QueryRowContext(ctx, stmt, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.Version)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_plan_team_date"`:
			return ErrDuplicatePlanDate
		case err.Error() == `pq: insert or update on table "training_plans" violates foreign `+
			`key constraint "training_plans_team_id_fkey"`:
			return ErrTeamNotFound
		default:
			return err
		}
	}

	if plan.EventKind == EventKindMatch {
		err = ensureMatchLog(ctx, tx, plan.Team.ID, plan.EventDate, plan.Objectives)
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
	}

	return tx.Commit()
}

func (m *TrainingPlanModel) Get(id int64) (*TrainingPlan, error) {
	stmt := `
		SELECT id, team_id, event_date, event_kind, game_phase, technique_tags, motor_goals,
			mental_goals, exercises, objectives, selected_rules, assumptions, week_index,
			created_at, version
		FROM training_plans
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	plan, err := scanPlan(m.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return plan, nil
}

func scanPlan(row rowScanner) (*TrainingPlan, error) {
	var plan TrainingPlan
	err := row.Scan(
		&plan.ID,
		&plan.Team,
		&plan.EventDate,
		&plan.EventKind,
		&plan.GamePhase,
		pq.Array(&plan.TechniqueTags),
		pq.Array(&plan.MotorGoals),
		pq.Array(&plan.MentalGoals),
		pq.Array(&plan.Exercises),
		&plan.Objectives,
		&plan.SelectedRules,
		&plan.Assumptions,
		&plan.WeekIndex,
		&plan.CreatedAt,
		&plan.Version,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (m *TrainingPlanModel) GetAllByTeam(teamID int64, dateRange DateRange) ([]*TrainingPlan,
	error) {
	return m.getAllByTeam(context.Background(), teamID, dateRange)
}

func (m *TrainingPlanModel) GetAllByTeamCtx(ctx context.Context, teamID int64,
	dateRange DateRange) ([]*TrainingPlan, error) {
	return m.getAllByTeam(ctx, teamID, dateRange)
}

func (m *TrainingPlanModel) getAllByTeam(parent context.Context, teamID int64,
	dateRange DateRange) ([]*TrainingPlan, error) {
	stmt := `
		SELECT id, team_id, event_date, event_kind, game_phase, technique_tags, motor_goals,
			mental_goals, exercises, objectives, selected_rules, assumptions, week_index,
			created_at, version
		FROM training_plans
		WHERE team_id = $1
		AND (($2 IS FALSE) OR event_date >= $3)
		AND (($4 IS FALSE) OR event_date <= $5)
		ORDER BY event_date ASC, id ASC`

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

	plans := make([]*TrainingPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (m *TrainingPlanModel) Update(plan *TrainingPlan) error {
	stmt := `
		UPDATE training_plans
		SET event_date = $1, event_kind = $2, game_phase = $3, technique_tags = $4,
			motor_goals = $5, mental_goals = $6, exercises = $7, objectives = $8,
			selected_rules = $9, assumptions = $10, week_index = $11, version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING version`

	args := []any{
		plan.EventDate,
		plan.EventKind,
		plan.GamePhase,
		pq.Array(plan.TechniqueTags),
		pq.Array(plan.MotorGoals),
		pq.Array(plan.MentalGoals),
		pq.Array(plan.Exercises),
		plan.Objectives,
		plan.SelectedRules,
		plan.Assumptions,
		plan.WeekIndex,
		plan.ID,
		plan.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&plan.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"unq_plan_team_date"`:
			return ErrDuplicatePlanDate
		default:
			return err
		}
	}

	return nil
}

// Delete removes the plan; when it was a match, the corresponding match log
// for the same team and date goes with it in the same transaction.
func (m *TrainingPlanModel) Delete(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
		DELETE FROM training_plans
		WHERE id = $1
		RETURNING team_id, event_date, event_kind`

	var (
		teamID    int64
		eventDate Date
		eventKind EventKind
	)
	err = tx.QueryRowContext(ctx, stmt, id).Scan(&teamID, &eventDate, &eventKind)
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

	if eventKind == EventKindMatch {
		// Idempotent: zero rows affected is fine when no log was created.
		_, err = tx.ExecContext(ctx, `
			DELETE FROM match_logs
			WHERE team_id = $1 AND match_date = $2`, teamID, eventDate)
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
	}

	return tx.Commit()
}

func ValidateTrainingPlan(v *validator.Validator, plan *TrainingPlan) {
	v.Check(plan.Team.ID > 0, "team_id", "must be provided")
	v.Check(!plan.EventDate.IsZero(), "event_date", "must be provided")
	v.Check(validator.PermittedValue(plan.EventKind, EventKindTraining, EventKindMatch),
		"event_kind", `must be either "training" or "match"`)

	if plan.GamePhase != "" {
		v.Check(validator.PermittedValue(plan.GamePhase, GamePhases...), "game_phase",
			"must be one of the configured phases of play")
	}

	v.Check(len(plan.Exercises) <= MaxExercises, "exercises",
		"must not contain more than 5 entries")
	v.Check(validator.Unique(plan.TechniqueTags), "technique_tags",
		"must not contain duplicate values")
	v.Check(validator.Unique(plan.MotorGoals), "motor_goals",
		"must not contain duplicate values")
	v.Check(validator.Unique(plan.MentalGoals), "mental_goals",
		"must not contain duplicate values")

	switch plan.EventKind {
	case EventKindMatch:
		v.Check(plan.WeekIndex == 0, "week_index", "must be 0 for matches")
	case EventKindTraining:
		v.Check(plan.WeekIndex >= 1 && plan.WeekIndex <= 4, "week_index",
			"must be between 1 and 4 for trainings")
	}
}
