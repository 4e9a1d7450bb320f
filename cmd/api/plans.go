package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/validator"
)

// InsertPlan creates a training or match plan. A match plan also creates the
// matching match log for the same team and date. Training plans with a
// weekly index and no assumption text are pre-filled from club settings.
func (app *application) InsertPlan(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID        data.Ref       `json:"team_id"`
		EventDate     data.Date      `json:"event_date"`
		EventKind     data.EventKind `json:"event_kind"`
		GamePhase     string         `json:"game_phase"`
		TechniqueTags []string       `json:"technique_tags"`
		MotorGoals    []string       `json:"motor_goals"`
		MentalGoals   []string       `json:"mental_goals"`
		Exercises     []string       `json:"exercises"`
		Objectives    string         `json:"objectives"`
		SelectedRules string         `json:"selected_rules"`
		Assumptions   string         `json:"assumptions"`
		WeekIndex     int            `json:"week_index"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	plan := &data.TrainingPlan{
		Team:          input.TeamID,
		EventDate:     input.EventDate,
		EventKind:     input.EventKind,
		GamePhase:     input.GamePhase,
		TechniqueTags: input.TechniqueTags,
		MotorGoals:    input.MotorGoals,
		MentalGoals:   input.MentalGoals,
		Exercises:     input.Exercises,
		Objectives:    input.Objectives,
		SelectedRules: input.SelectedRules,
		Assumptions:   input.Assumptions,
		WeekIndex:     input.WeekIndex,
	}

	if plan.EventKind == data.EventKindTraining && plan.Assumptions == "" && plan.WeekIndex != 0 {
		settings, err := app.models.Settings.Get()
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		plan.Assumptions = settings.Assumptions.ForIndex(plan.WeekIndex)
	}

	v := validator.New()
	if data.ValidateTrainingPlan(v, plan); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Plans.Insert(plan)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicatePlanDate):
			v.AddError("event_date", "a plan already exists for this team and date")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, data.ErrTeamNotFound):
			v.AddError("team_id", "team could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/plans/%d", plan.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"plan": plan}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	plan, err := app.models.Plans.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"plan": plan}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetTeamPlans(w http.ResponseWriter, r *http.Request) {
	teamID, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	dateRange := app.readDateRange(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	plans, err := app.models.Plans.GetAllByTeam(teamID, dateRange)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"plans": plans}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	plan, err := app.models.Plans.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		GamePhase     *string  `json:"game_phase"`
		TechniqueTags []string `json:"technique_tags"`
		MotorGoals    []string `json:"motor_goals"`
		MentalGoals   []string `json:"mental_goals"`
		Exercises     []string `json:"exercises"`
		Objectives    *string  `json:"objectives"`
		SelectedRules *string  `json:"selected_rules"`
		Assumptions   *string  `json:"assumptions"`
		WeekIndex     *int     `json:"week_index"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.GamePhase != nil {
		plan.GamePhase = *input.GamePhase
	}
	if input.TechniqueTags != nil {
		plan.TechniqueTags = input.TechniqueTags
	}
	if input.MotorGoals != nil {
		plan.MotorGoals = input.MotorGoals
	}
	if input.MentalGoals != nil {
		plan.MentalGoals = input.MentalGoals
	}
	if input.Exercises != nil {
		plan.Exercises = input.Exercises
	}
	if input.Objectives != nil {
		plan.Objectives = *input.Objectives
	}
	if input.SelectedRules != nil {
		plan.SelectedRules = *input.SelectedRules
	}
	if input.Assumptions != nil {
		plan.Assumptions = *input.Assumptions
	}
	if input.WeekIndex != nil {
		plan.WeekIndex = *input.WeekIndex
	}

	v := validator.New()
	if data.ValidateTrainingPlan(v, plan); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Plans.Update(plan)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"plan": plan}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// DeletePlan removes the plan. Deleting a match plan also removes the match
// log for the same team and date.
func (app *application) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Plans.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "plan successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
