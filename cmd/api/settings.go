package main

import (
	"errors"
	"net/http"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/validator"
)

// GetSettings returns the club settings singleton, creating it with empty
// defaults on first read.
func (app *application) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := app.models.Settings.Get()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"settings": settings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := app.models.Settings.Get()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	var input struct {
		TechniqueTags []data.SettingsTag        `json:"technique_tags"`
		MotorGoals    []data.SettingsTag        `json:"motor_goals"`
		MentalGoals   []data.SettingsTag        `json:"mental_goals"`
		Assumptions   *data.TrainingAssumptions `json:"training_assumptions"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.TechniqueTags != nil {
		settings.TechniqueTags = input.TechniqueTags
	}
	if input.MotorGoals != nil {
		settings.MotorGoals = input.MotorGoals
	}
	if input.MentalGoals != nil {
		settings.MentalGoals = input.MentalGoals
	}
	if input.Assumptions != nil {
		settings.Assumptions = *input.Assumptions
	}

	v := validator.New()
	if data.ValidateClubSettings(v, settings); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Settings.Update(settings)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"settings": settings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) AddTechniqueTag(w http.ResponseWriter, r *http.Request) {
	app.addSettingsTag(w, r, data.TagCategoryTechnique)
}

func (app *application) AddMotorGoal(w http.ResponseWriter, r *http.Request) {
	app.addSettingsTag(w, r, data.TagCategoryMotor)
}

func (app *application) AddMentalGoal(w http.ResponseWriter, r *http.Request) {
	app.addSettingsTag(w, r, data.TagCategoryMental)
}

func (app *application) addSettingsTag(w http.ResponseWriter, r *http.Request,
	category data.TagCategory) {
	var input struct {
		Name string `json:"name"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	tag := data.SettingsTag{Name: input.Name, Active: true}

	v := validator.New()
	if data.ValidateSettingsTag(v, tag); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	settings, err := app.models.Settings.AddTag(category, tag)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"settings": settings}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
