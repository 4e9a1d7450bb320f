package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/bks/clubcoordinator/internal/validator"
)

type TagCategory string

const (
	TagCategoryTechnique TagCategory = "technique_tags"
	TagCategoryMotor     TagCategory = "motor_goals"
	TagCategoryMental    TagCategory = "mental_goals"
)

type SettingsTag struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// TrainingAssumptions holds the default assumption text for each weekly
// training index, used to pre-fill new training plans.
type TrainingAssumptions struct {
	Training1 string `json:"training1"`
	Training2 string `json:"training2"`
	Training3 string `json:"training3"`
	Training4 string `json:"training4"`
}

// ForIndex returns the default text for a weekly training index 1-4, or ""
// for anything else.
func (a TrainingAssumptions) ForIndex(weekIndex int) string {
	switch weekIndex {
	case 1:
		return a.Training1
	case 2:
		return a.Training2
	case 3:
		return a.Training3
	case 4:
		return a.Training4
	default:
		return ""
	}
}

// ClubSettings is a singleton: exactly one row exists, created with empty
// defaults the first time it is read.
type ClubSettings struct {
	TechniqueTags []SettingsTag       `json:"technique_tags"`
	MotorGoals    []SettingsTag       `json:"motor_goals"`
	MentalGoals   []SettingsTag       `json:"mental_goals"`
	Assumptions   TrainingAssumptions `json:"training_assumptions"`
	Version       int32               `json:"-"`
}

type SettingsModel struct {
	db *sql.DB
}

func (m *SettingsModel) Get() (*ClubSettings, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	settings, err := m.get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// First access: create the default row. A concurrent first access may
	// win the insert, in which case reading again succeeds.
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO club_settings (id, technique_tags, motor_goals, mental_goals)
		VALUES (1, '[]', '[]', '[]')
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return nil, err
	}

	return m.get(ctx)
}

func (m *SettingsModel) get(ctx context.Context) (*ClubSettings, error) {
	stmt := `
		SELECT technique_tags, motor_goals, mental_goals, assumptions_1, assumptions_2,
			assumptions_3, assumptions_4, version
		FROM club_settings
		WHERE id = 1`

	var (
		settings  ClubSettings
		technique []byte
		motor     []byte
		mental    []byte
	)
	err := m.db.QueryRowContext(ctx, stmt).Scan(
		&technique,
		&motor,
		&mental,
		&settings.Assumptions.Training1,
		&settings.Assumptions.Training2,
		&settings.Assumptions.Training3,
		&settings.Assumptions.Training4,
		&settings.Version,
	)
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw  []byte
		dest *[]SettingsTag
	}{
		{technique, &settings.TechniqueTags},
		{motor, &settings.MotorGoals},
		{mental, &settings.MentalGoals},
	} {
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}

	return &settings, nil
}

func (m *SettingsModel) Update(settings *ClubSettings) error {
	stmt := `
		UPDATE club_settings
		SET technique_tags = $1, motor_goals = $2, mental_goals = $3, assumptions_1 = $4,
			assumptions_2 = $5, assumptions_3 = $6, assumptions_4 = $7, version = version + 1
		WHERE id = 1 AND version = $8
		RETURNING version`

	technique, err := json.Marshal(settings.TechniqueTags)
	if err != nil {
		return err
	}
	motor, err := json.Marshal(settings.MotorGoals)
	if err != nil {
		return err
	}
	mental, err := json.Marshal(settings.MentalGoals)
	if err != nil {
		return err
	}

	args := []any{
		technique,
		motor,
		mental,
		settings.Assumptions.Training1,
		settings.Assumptions.Training2,
		settings.Assumptions.Training3,
		settings.Assumptions.Training4,
		settings.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = m.db.QueryRowContext(ctx, stmt, args...).Scan(&settings.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// AddTag appends a tag to one of the three enumerable categories.
func (m *SettingsModel) AddTag(category TagCategory, tag SettingsTag) (*ClubSettings, error) {
	settings, err := m.Get()
	if err != nil {
		return nil, err
	}

	switch category {
	case TagCategoryTechnique:
		settings.TechniqueTags = append(settings.TechniqueTags, tag)
	case TagCategoryMotor:
		settings.MotorGoals = append(settings.MotorGoals, tag)
	case TagCategoryMental:
		settings.MentalGoals = append(settings.MentalGoals, tag)
	default:
		return nil, errors.New("unknown settings tag category")
	}

	err = m.Update(settings)
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func ValidateSettingsTag(v *validator.Validator, tag SettingsTag) {
	v.Check(tag.Name != "", "name", "must be provided")
	v.Check(len(tag.Name) <= 100, "name", "must be 100 characters or less")
}

func ValidateClubSettings(v *validator.Validator, settings *ClubSettings) {
	for _, list := range [][]SettingsTag{settings.TechniqueTags, settings.MotorGoals,
		settings.MentalGoals} {
		for _, tag := range list {
			ValidateSettingsTag(v, tag)
		}
	}
}
